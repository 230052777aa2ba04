package action

import (
	"fmt"
	"net/http"
)

// ActiveClass marks a toggle control in its active state.
const ActiveClass = "active"

// ToggleState is the observable state of a toggle control.
type ToggleState struct {
	Method      string
	Label       string
	Active      bool
	FlagVisible bool
}

// Mutation describes the change to apply to a control after success.
type Mutation struct {
	Kind  Kind
	State ToggleState
	// HasFlag is set when the control owns a sibling flag element.
	HasFlag bool
}

type labels struct {
	inactive string
	active   string
}

func labelsFor(kind Kind) labels {
	switch kind {
	case Bookmark:
		return labels{inactive: "Bookmark", active: "Bookmarked"}
	case Watch:
		return labels{inactive: "Watch", active: "Watching"}
	default:
		return labels{}
	}
}

// InactiveState is the state a toggle control starts from when nothing is set.
func InactiveState(kind Kind) ToggleState {
	return ToggleState{Method: http.MethodPost, Label: labelsFor(kind).inactive}
}

// ActiveState is the state after a successful POST.
func ActiveState(kind Kind) ToggleState {
	return ToggleState{
		Method:      http.MethodDelete,
		Label:       labelsFor(kind).active,
		Active:      true,
		FlagVisible: kind == Bookmark,
	}
}

// Transition returns the mutation a successful request with sentMethod
// produces. POST activates, DELETE deactivates.
func Transition(kind Kind, sentMethod string) (Mutation, error) {
	if !kind.IsToggle() {
		return Mutation{}, fmt.Errorf("action: %s is not a toggle", kind)
	}
	var next ToggleState
	switch sentMethod {
	case http.MethodPost:
		next = ActiveState(kind)
	case http.MethodDelete:
		next = InactiveState(kind)
	default:
		return Mutation{}, fmt.Errorf("action: %w for %s toggle: %q", ErrUnsupportedMethod, kind, sentMethod)
	}
	return Mutation{Kind: kind, State: next, HasFlag: kind == Bookmark}, nil
}

// Next is Transition applied to a full state, for callers holding one.
func Next(kind Kind, current ToggleState) (ToggleState, error) {
	m, err := Transition(kind, current.Method)
	if err != nil {
		return current, err
	}
	if !m.HasFlag {
		m.State.FlagVisible = current.FlagVisible
	}
	return m.State, nil
}
