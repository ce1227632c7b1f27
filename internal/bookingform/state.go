package bookingform

// State is the form's UI state. Exactly one of Editing, Submitting, Submitted or Failed.
type State interface {
	isState()
}

// Editing accepts input. It is the initial state.
type Editing struct{}

// Submitting has one request in flight; inputs and submit are disabled.
type Submitting struct{}

// Submitted is the confirmation view.
type Submitted struct {
	BookingID string
}

// Failed is Editing plus an error message. The message is cleared on the next submit.
type Failed struct {
	Message string
}

func (Editing) isState()    {}
func (Submitting) isState() {}
func (Submitted) isState()  {}
func (Failed) isState()     {}

// acceptsInput reports whether the guest may edit the fields in s.
func acceptsInput(s State) bool {
	switch s.(type) {
	case Editing, Failed:
		return true
	default:
		return false
	}
}
