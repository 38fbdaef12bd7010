package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	e := New(InputInvalid, "source text is missing")
	if !strings.Contains(e.Error(), "INPUT_INVALID") {
		t.Errorf("expected code in message, got %s", e.Error())
	}
	if !strings.Contains(e.Error(), "source text is missing") {
		t.Errorf("expected message text, got %s", e.Error())
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	e := Wrap(AIUnavailable, "conversion call failed", cause)

	if !stderrors.Is(e, cause) {
		t.Error("wrapped error should satisfy errors.Is on the cause")
	}
	if !strings.Contains(e.Error(), "connection refused") {
		t.Errorf("expected cause in message, got %s", e.Error())
	}
}

func TestCodeOf(t *testing.T) {
	e := Wrap(AITimeout, "deadline exceeded", stderrors.New("ctx"))
	if CodeOf(e) != AITimeout {
		t.Errorf("expected AITimeout, got %s", CodeOf(e))
	}

	wrapped := fmt.Errorf("outer: %w", e)
	if CodeOf(wrapped) != AITimeout {
		t.Errorf("expected AITimeout through wrap chain, got %s", CodeOf(wrapped))
	}

	if CodeOf(stderrors.New("plain")) != InternalError {
		t.Error("unknown errors should report InternalError")
	}
}
