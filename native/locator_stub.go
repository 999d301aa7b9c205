//go:build !windows

package native

func loadLibrary(string) (*Library, error) {
	return nil, ErrPlatformNotSupported
}
