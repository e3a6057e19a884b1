package form

const (
	msgFixErrors = "Please fix the errors above."
	msgSent      = "Message sent. Thank you!"
)

// Controller is the submission state machine. It owns the form values, the
// per-field validation outcome, and the lifecycle status, and is driven
// one event at a time from the update loop: edits, debounce fires, submit,
// and the completion of the network exchange.
//
// The controller never talks to the network itself. Submit answers with the
// payload snapshot when an exchange should happen, and Finish folds the
// exchange's result back in. Single-flight is the caller's job while
// pending, but Submit refuses re-entry as a backstop.
type Controller struct {
	values    Values
	errors    Errors
	lifecycle Lifecycle
}

// NewController starts idle with all fields empty.
func NewController() *Controller {
	return &Controller{
		values:    NewValues(),
		errors:    Errors{},
		lifecycle: Idle(),
	}
}

// Values returns the live values map. Callers treat it as read-only;
// mutation goes through Edit.
func (c *Controller) Values() Values { return c.values }

// Errors returns the current validation outcome.
func (c *Controller) Errors() Errors { return c.errors }

// Lifecycle returns the current status and banner message.
func (c *Controller) Lifecycle() Lifecycle { return c.lifecycle }

// Edit records a keystroke's new raw value and optimistically clears the
// field's stale error. Revalidation happens later, when the debounce timer
// for this edit fires uninterrupted.
func (c *Controller) Edit(field Field, value string) {
	c.values[field] = value
	delete(c.errors, field)
}

// ApplyFieldError writes a debounced validation result for one field.
// An empty message clears the entry.
func (c *Controller) ApplyFieldError(field Field, message string) {
	if message == "" {
		delete(c.errors, field)
		return
	}
	c.errors[field] = message
}

// Submit revalidates the whole form. When anything fails, the full outcome
// is installed, the lifecycle flips to error with the fix-errors banner, and
// no exchange happens. When the form is clean the lifecycle flips to pending
// and the returned snapshot is what the transport should send.
//
// A submit while already pending is refused outright.
func (c *Controller) Submit() (Values, bool) {
	if c.lifecycle.Status() == StatusPending {
		return nil, false
	}
	errs := ValidateForm(c.values)
	if len(errs) > 0 {
		c.errors = errs
		c.lifecycle = Failed(msgFixErrors)
		return nil, false
	}
	c.lifecycle = Pending()
	return c.values.Clone(), true
}

// Finish completes the pending exchange. nil means the endpoint accepted the
// form: values reset to empty defaults and every error clears. Anything else
// surfaces as the error banner, with the user's input left intact for retry.
func (c *Controller) Finish(err error) {
	if err != nil {
		c.lifecycle = Failed(err.Error())
		return
	}
	c.values.Reset()
	c.errors = Errors{}
	c.lifecycle = OK(msgSent)
}
