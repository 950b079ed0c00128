package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCompatiblePreset means no candidate preset was accepted for the
	// requested output format. No session was started and no progress emitted.
	ErrNoCompatiblePreset = errors.New("no compatible preset")
	// ErrToolMissing means the external transcoder executable could not be
	// located; nothing was spawned.
	ErrToolMissing = errors.New("external tool missing")
	// ErrSpawn means the external transcoder could not be started.
	ErrSpawn = errors.New("spawn error")
	// ErrExternalExit means the external transcoder ran and exited nonzero.
	ErrExternalExit = errors.New("external tool failed")
	// ErrExportFailed means the native export session reported failure.
	ErrExportFailed = errors.New("export failed")
	// ErrCancelled means the session was cancelled by the caller.
	ErrCancelled = errors.New("conversion cancelled")
	// ErrInternal flags terminal states the design considers unreachable.
	ErrInternal = errors.New("internal inconsistency")
)

// ExitCodeError carries the exit code of a failed external transcoder run.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode extracts the external tool exit code from an error chain. Returns
// -1 when the chain carries none.
func ExitCode(err error) int {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
