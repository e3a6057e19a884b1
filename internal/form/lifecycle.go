package form

// Status is the single scalar describing the form's submission lifecycle,
// distinct from per-field validity.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusOK      Status = "ok"
	StatusError   Status = "error"
)

// Lifecycle pairs the status with its banner message. The message is only
// meaningful for StatusError (failure detail) and StatusOK (acknowledgement);
// the constructors below keep the two from drifting apart.
type Lifecycle struct {
	status  Status
	message string
}

func Idle() Lifecycle    { return Lifecycle{status: StatusIdle} }
func Pending() Lifecycle { return Lifecycle{status: StatusPending} }

// OK carries the generic success acknowledgement.
func OK(message string) Lifecycle { return Lifecycle{status: StatusOK, message: message} }

// Failed carries the banner shown to the user.
func Failed(message string) Lifecycle { return Lifecycle{status: StatusError, message: message} }

func (l Lifecycle) Status() Status  { return l.status }
func (l Lifecycle) Message() string { return l.message }
