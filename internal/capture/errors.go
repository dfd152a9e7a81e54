package capture

import (
	"errors"
	"fmt"
)

// ErrInvalidURL is returned before any I/O when the URL is empty or not http(s).
var ErrInvalidURL = errors.New("invalid url")

type Stage string

const (
	StageValidate Stage = "validate"
	StagePrepare  Stage = "prepare"
	StageStrategy Stage = "strategy"
)

// Error is what Capture returns on failure. Err keeps the cause, so
// errors.Is(err, browser.ErrNavigation) and friends still work.
type Error struct {
	Stage Stage
	JobID string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("capture job %s failed at %s: %v", e.JobID, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
