//go:build windows

package steam

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows/registry"
)

// Registry locations recording the Steam install path, most specific first.
var installKeys = []struct {
	root registry.Key
	path string
}{
	{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Valve\Steam`},
	{registry.LOCAL_MACHINE, `SOFTWARE\Valve\Steam`},
	{registry.CURRENT_USER, `SOFTWARE\Valve\Steam`},
}

// Fallbacks for when the registry has no usable entry.
var installFallbacks = []string{
	`C:\Program Files (x86)\Steam`,
	`C:\Program Files\Steam`,
}

// InstallDir resolves the Steam installation directory from the registry,
// falling back to the common install locations.
func InstallDir() (string, error) {
	for _, k := range installKeys {
		key, err := registry.OpenKey(k.root, k.path, registry.QUERY_VALUE)
		if err != nil {
			continue
		}

		dir, _, err := key.GetStringValue("InstallPath")
		key.Close()

		if err != nil || dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			log.Debugf("Found Steam at: %s", dir)
			return dir, nil
		}
	}

	for _, dir := range installFallbacks {
		if _, err := os.Stat(filepath.Join(dir, "steamclient.dll")); err == nil {
			log.Debugf("Found Steam at fallback path: %s", dir)
			return dir, nil
		}
	}

	return "", ErrInstallNotFound
}
