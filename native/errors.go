package native

import (
	"errors"
	"fmt"
)

var (
	ErrLibraryNotFound      = errors.New("native: no Steam library found in any candidate location")
	ErrPlatformNotSupported = errors.New("native: platform not supported")
	ErrSessionActive        = errors.New("native: another session is already active in this process")
	ErrStatsUnavailable     = errors.New("native: user stats did not arrive before the deadline")
	ErrStatsNotReady        = errors.New("native: user stats not received yet")
	ErrInterfaceResolution  = errors.New("native: failed to resolve client interface")
	ErrWriteRejected        = errors.New("native: achievement write rejected by the Steam client")
)

// Stage identifies the step of the session open sequence that failed.
type Stage string

const (
	StageLocate    Stage = "locate library"
	StageBackend   Stage = "select backend"
	StageClient    Stage = "bind client"
	StagePipe      Stage = "create pipe"
	StageUser      Stage = "connect user"
	StageUserStats Stage = "bind user stats"
)

// InitError reports a failed session open, naming the stage that aborted it.
// Everything after the failed stage is skipped and the partial session is
// cleaned up before the error is returned.
type InitError struct {
	Stage Stage
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("native: init failed at %q: %v", string(e.Stage), e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
