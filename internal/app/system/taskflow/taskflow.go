// internal/app/system/taskflow/taskflow.go

// Package taskflow implements the task completion confirmation flow.
// Completing a task is a two-step, one-way transition: activating the
// control puts the task into an awaiting-confirmation step, and only the
// literal confirmation word moves it to completed. Completed is terminal.
package taskflow

import (
	"errors"
	"strings"
)

// State is a task's position in the completion flow.
type State int

const (
	// Unconfirmed is an incomplete task with no pending confirmation.
	Unconfirmed State = iota
	// AwaitingConfirmation means the completion control was activated
	// and the flow is waiting for the confirmation word.
	AwaitingConfirmation
	// Completed is terminal.
	Completed
)

// ConfirmWord is the literal a user must type to complete a task.
// Matching is case-insensitive after trimming surrounding whitespace.
const ConfirmWord = "yes"

var (
	// ErrAlreadyCompleted is returned for any transition out of Completed.
	ErrAlreadyCompleted = errors.New("task is already completed")

	// ErrNotAwaiting is returned when a confirmation or cancellation
	// arrives for a task that has no pending confirmation step.
	ErrNotAwaiting = errors.New("task has no pending confirmation")

	// ErrConfirmationMismatch is returned when the supplied word is not
	// the confirmation literal. The task stays in AwaitingConfirmation.
	ErrConfirmationMismatch = errors.New("type 'yes' to confirm completion")
)

func (s State) String() string {
	switch s {
	case Unconfirmed:
		return "unconfirmed"
	case AwaitingConfirmation:
		return "awaiting-confirmation"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Begin moves an incomplete task into the confirmation step. Beginning
// while already awaiting is a no-op so a re-rendered form does not error.
func Begin(s State) (State, error) {
	switch s {
	case Unconfirmed, AwaitingConfirmation:
		return AwaitingConfirmation, nil
	case Completed:
		return Completed, ErrAlreadyCompleted
	default:
		return s, ErrNotAwaiting
	}
}

// Confirm completes a task awaiting confirmation if input matches the
// confirmation word. Any other input keeps the task awaiting and returns
// ErrConfirmationMismatch.
func Confirm(s State, input string) (State, error) {
	switch s {
	case Completed:
		return Completed, ErrAlreadyCompleted
	case Unconfirmed:
		return Unconfirmed, ErrNotAwaiting
	case AwaitingConfirmation:
		if !strings.EqualFold(strings.TrimSpace(input), ConfirmWord) {
			return AwaitingConfirmation, ErrConfirmationMismatch
		}
		return Completed, nil
	default:
		return s, ErrNotAwaiting
	}
}

// Cancel aborts a pending confirmation, returning the task to
// Unconfirmed.
func Cancel(s State) (State, error) {
	switch s {
	case AwaitingConfirmation:
		return Unconfirmed, nil
	case Completed:
		return Completed, ErrAlreadyCompleted
	default:
		return s, ErrNotAwaiting
	}
}
