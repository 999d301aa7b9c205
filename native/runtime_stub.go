//go:build !windows

package native

// NewBackend always fails off Windows: the Steam client runtime only ships
// native interfaces there.
func (r *Runtime) NewBackend() (Backend, error) {
	return nil, ErrPlatformNotSupported
}
