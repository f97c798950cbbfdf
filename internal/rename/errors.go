package rename

import "fmt"

// UserError marks an expected user mistake: the event does not fit the
// current session state. It carries a short notice for the user and causes
// no state change. It is never retried and never logged as a failure.
type UserError struct {
	code   string
	Notice string
}

func (e *UserError) Error() string { return e.Notice }

// Code returns a stable machine-readable identifier for log correlation.
func (e *UserError) Code() string { return e.code }

// Predefined user input rejections.
var (
	ErrNoSession = &UserError{code: "NO_SESSION", Notice: "Nothing to rename. Send me a file first."}
	ErrNoName    = &UserError{code: "NO_NAME", Notice: "Pick a name first, then choose the format."}
	ErrBusy      = &UserError{code: "DELIVERY_IN_PROGRESS", Notice: "Hold on, your file is being processed."}
	ErrBadOrder  = &UserError{code: "OUT_OF_ORDER", Notice: "That action does not match the current step."}
	ErrEmptyName = &UserError{code: "EMPTY_NAME", Notice: "The new name cannot be empty."}
)

// DeliveryError wraps a real failure inside the delivery pipeline. The
// session is still cleared; the cause is surfaced to the user.
type DeliveryError struct {
	Stage string
	Cause error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery %s failed: %v", e.Stage, e.Cause)
}

func (e *DeliveryError) Unwrap() error { return e.Cause }

// Code returns a stable machine-readable identifier for log correlation.
func (e *DeliveryError) Code() string { return "DELIVERY_FAILED" }
