package steam

import "errors"

// ErrInstallNotFound is returned when no Steam installation can be located
// on this machine.
var ErrInstallNotFound = errors.New("steam: installation not found")
