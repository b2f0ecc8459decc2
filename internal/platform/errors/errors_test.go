package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeGameNotStarted, "game has not been started")
	target := New(CodeGameNotStarted, "different message")
	if !errors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}
	other := New(CodeGameCompleted, "game has already been completed")
	if errors.Is(err, other) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeNotFound, "record not found", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if got := err.Error(); got != "record not found" {
		t.Fatalf("message = %q, want %q", got, "record not found")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeLineupInvalid, "bad lineup")); got != CodeLineupInvalid {
		t.Fatalf("code = %q, want %q", got, CodeLineupInvalid)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != CodeUnknown {
		t.Fatalf("code = %q, want %q", got, CodeUnknown)
	}
}
