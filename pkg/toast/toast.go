package toast

import (
	"github.com/vango-dev/memokit/internal/errors"
)

// EventName is the event name used when a state snapshot is pushed to
// remote clients.
const EventName = "memokit:toast"

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	switch t {
	case TypeSuccess, TypeError, TypeWarning, TypeInfo:
		return true
	}
	return false
}

// ParseType converts s to a Type. An unknown name yields an E081 error.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", errors.New("E081").WithDetailf("%q is not a toast type.", s)
	}
	return t, nil
}

// State is the displayed toast. An empty Message means nothing is shown.
type State struct {
	Message string `json:"message"`
	Type    Type   `json:"type"`
}

// Visible reports whether a toast is currently shown.
func (s State) Visible() bool {
	return s.Message != ""
}

// ActionKind identifies a reducer action.
type ActionKind int

const (
	ActionShow ActionKind = iota + 1
	ActionHide
)

// Action is a state transition for Reduce.
type Action struct {
	Kind    ActionKind
	Message string
	Type    Type
}

// ShowAction returns the action that displays message.
func ShowAction(message string, t Type) Action {
	return Action{Kind: ActionShow, Message: message, Type: t}
}

// HideAction returns the action that clears the toast.
func HideAction() Action {
	return Action{Kind: ActionHide}
}

// Reduce applies a to s. Hiding keeps the last type so a closing animation
// can still style the toast.
func Reduce(s State, a Action) State {
	switch a.Kind {
	case ActionShow:
		return State{Message: a.Message, Type: a.Type}
	case ActionHide:
		return State{Type: s.Type}
	default:
		return s
	}
}
