package taskflow_test

import (
	"errors"
	"testing"

	"github.com/blackhatcommit/commithub/internal/app/system/taskflow"
)

func TestBegin(t *testing.T) {
	s, err := taskflow.Begin(taskflow.Unconfirmed)
	if err != nil || s != taskflow.AwaitingConfirmation {
		t.Errorf("Begin(Unconfirmed) = %v, %v", s, err)
	}

	// Re-rendered confirmation form: beginning twice is a no-op.
	s, err = taskflow.Begin(taskflow.AwaitingConfirmation)
	if err != nil || s != taskflow.AwaitingConfirmation {
		t.Errorf("Begin(AwaitingConfirmation) = %v, %v", s, err)
	}

	if _, err := taskflow.Begin(taskflow.Completed); !errors.Is(err, taskflow.ErrAlreadyCompleted) {
		t.Errorf("Begin(Completed) err = %v", err)
	}
}

func TestConfirm_AcceptsCaseInsensitiveYes(t *testing.T) {
	for _, input := range []string{"yes", "YES", "Yes", "  yes  ", "yEs"} {
		s, err := taskflow.Confirm(taskflow.AwaitingConfirmation, input)
		if err != nil || s != taskflow.Completed {
			t.Errorf("Confirm(%q) = %v, %v; want Completed", input, s, err)
		}
	}
}

func TestConfirm_RejectsEverythingElse(t *testing.T) {
	for _, input := range []string{"", "no", "y", "yess", "yes!", "ye s", "ok", "confirm"} {
		s, err := taskflow.Confirm(taskflow.AwaitingConfirmation, input)
		if !errors.Is(err, taskflow.ErrConfirmationMismatch) {
			t.Errorf("Confirm(%q) err = %v, want ErrConfirmationMismatch", input, err)
		}
		if s != taskflow.AwaitingConfirmation {
			t.Errorf("Confirm(%q) moved state to %v; mismatch must keep it awaiting", input, s)
		}
	}
}

func TestConfirm_CompletedIsTerminal(t *testing.T) {
	s, err := taskflow.Confirm(taskflow.Completed, "yes")
	if !errors.Is(err, taskflow.ErrAlreadyCompleted) {
		t.Errorf("confirming a completed task must fail, got err = %v", err)
	}
	if s != taskflow.Completed {
		t.Errorf("state = %v, want Completed", s)
	}
}

func TestConfirm_RequiresPendingStep(t *testing.T) {
	if _, err := taskflow.Confirm(taskflow.Unconfirmed, "yes"); !errors.Is(err, taskflow.ErrNotAwaiting) {
		t.Errorf("Confirm without Begin err = %v, want ErrNotAwaiting", err)
	}
}

func TestCancel(t *testing.T) {
	s, err := taskflow.Cancel(taskflow.AwaitingConfirmation)
	if err != nil || s != taskflow.Unconfirmed {
		t.Errorf("Cancel(AwaitingConfirmation) = %v, %v", s, err)
	}

	if _, err := taskflow.Cancel(taskflow.Completed); !errors.Is(err, taskflow.ErrAlreadyCompleted) {
		t.Errorf("Cancel(Completed) err = %v", err)
	}
	if _, err := taskflow.Cancel(taskflow.Unconfirmed); !errors.Is(err, taskflow.ErrNotAwaiting) {
		t.Errorf("Cancel(Unconfirmed) err = %v", err)
	}
}

func TestStateString(t *testing.T) {
	cases := map[taskflow.State]string{
		taskflow.Unconfirmed:          "unconfirmed",
		taskflow.AwaitingConfirmation: "awaiting-confirmation",
		taskflow.Completed:            "completed",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
