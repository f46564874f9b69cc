package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptState is returned when a stored state cannot be decoded
var ErrCorruptState = errors.New("corrupt dialogue state")

// StateKind is the variant tag of DialogueState
type StateKind string

const (
	StateShowingCategories StateKind = "showing_categories"
	StateShowingQuestions  StateKind = "showing_questions"
	StateBlocked           StateKind = "blocked"
)

// DialogueState is the persisted conversation state of one chat.
// The zero value means ShowingCategories.
type DialogueState struct {
	Kind     StateKind `json:"state"`
	Category string    `json:"category,omitempty"`
}

func ShowingCategories() DialogueState {
	return DialogueState{Kind: StateShowingCategories}
}

func ShowingQuestions(category string) DialogueState {
	return DialogueState{Kind: StateShowingQuestions, Category: category}
}

func Blocked() DialogueState {
	return DialogueState{Kind: StateBlocked}
}

// Is reports whether the state has the given kind
func (s DialogueState) Is(kind StateKind) bool {
	if s.Kind == "" {
		return kind == StateShowingCategories
	}
	return s.Kind == kind
}

func (s DialogueState) String() string {
	if s.Is(StateShowingQuestions) {
		return fmt.Sprintf("%s(%s)", s.Kind, s.Category)
	}
	if s.Kind == "" {
		return string(StateShowingCategories)
	}
	return string(s.Kind)
}

// EncodeState serializes a state for a dialogue store
func EncodeState(s DialogueState) ([]byte, error) {
	if s.Kind == "" {
		s.Kind = StateShowingCategories
	}
	if !s.Is(StateShowingQuestions) {
		s.Category = ""
	}
	return json.Marshal(s)
}

// DecodeState parses a stored state. Unknown variants and
// ShowingQuestions without a category are rejected.
func DecodeState(data []byte) (DialogueState, error) {
	var s DialogueState
	if err := json.Unmarshal(data, &s); err != nil {
		return ShowingCategories(), fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	switch s.Kind {
	case StateShowingCategories, StateBlocked:
		return DialogueState{Kind: s.Kind}, nil
	case StateShowingQuestions:
		if s.Category == "" {
			return ShowingCategories(), fmt.Errorf("%w: %s without category", ErrCorruptState, s.Kind)
		}
		return s, nil
	default:
		return ShowingCategories(), fmt.Errorf("%w: unknown state %q", ErrCorruptState, s.Kind)
	}
}
