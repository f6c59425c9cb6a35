package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle      State = "idle"
	StateDecoding  State = "decoding"
	StateCommitted State = "committed"
	StateError     State = "error"
)

const (
	EventStart  Event = "start"
	EventFinish Event = "finish"
	EventStop   Event = "stop"
	EventCommit Event = "commit"
	EventFail   Event = "fail"
	EventReset  Event = "reset"
)

func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		return StateError, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventStart:
			return StateDecoding, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateDecoding:
		switch event {
		case EventFinish:
			return StateCommitted, nil
		case EventStop:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCommitted:
		switch event {
		case EventCommit:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateError:
		switch event {
		case EventReset:
			return StateIdle, nil
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
