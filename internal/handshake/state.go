package handshake

import "fmt"

// State is a step in the lifecycle of a single handshake run.
type State string

// Event drives a State transition.
type Event string

const (
	StateInit       State = "INIT"
	StateSocketOpen State = "SOCKET_OPEN"
	StateSent       State = "SENT"
	StateReceiving  State = "RECEIVING"
	StateConfirmed  State = "CONFIRMED"
	StateClosed     State = "CLOSED"
)

const (
	EventOpen     Event = "open"
	EventSend     Event = "send"
	EventReceive  Event = "receive"
	EventMismatch Event = "mismatch"
	EventMatch    Event = "match"
	EventClose    Event = "close"
	EventFail     Event = "fail"
)

// Transition returns the state reached from current on event. Failures move
// any live state straight to CLOSED; CLOSED itself accepts nothing.
func Transition(current State, event Event) (State, error) {
	if current == StateClosed {
		return current, invalidTransition(current, event)
	}
	if event == EventFail {
		return StateClosed, nil
	}

	switch current {
	case StateInit:
		switch event {
		case EventOpen:
			return StateSocketOpen, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSocketOpen:
		switch event {
		case EventSend:
			return StateSent, nil
		case EventClose:
			return StateClosed, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSent:
		switch event {
		case EventReceive:
			return StateReceiving, nil
		case EventClose:
			return StateClosed, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateReceiving:
		switch event {
		case EventMismatch:
			return StateReceiving, nil
		case EventMatch:
			return StateConfirmed, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateConfirmed:
		switch event {
		case EventClose:
			return StateClosed, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
