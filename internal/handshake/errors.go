package handshake

import "errors"

// Error kinds. Match them with errors.Is against an error returned by the
// Client.
var (
	ErrSocketCreation = errors.New("socket creation error")
	ErrSend           = errors.New("send error")
	ErrReceive        = errors.New("receive error")
)

// Error reports which socket call failed and the underlying OS error.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func wrap(kind, err error) error {
	return &Error{Kind: kind, Err: err}
}
