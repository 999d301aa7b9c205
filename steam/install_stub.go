//go:build !windows

package steam

// InstallDir always fails off Windows; the Steam client this tool drives
// only runs there.
func InstallDir() (string, error) {
	return "", ErrInstallNotFound
}
