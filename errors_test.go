package pipemagic

import (
	"errors"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Issues: []ValidationIssue{{Message: "pipeline has no input node"}}}
	if err.Error() == "" {
		t.Fatal("expected non-empty error message")
	}
}

func TestCycleErrorMessage(t *testing.T) {
	err := &CycleError{Remaining: []string{"a", "b"}}
	if err.Error() != "pipeline contains a cycle" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestAbortErrorUnwrap(t *testing.T) {
	cause := errors.New("context canceled")
	err := &AbortError{Cause: cause}
	if !errors.Is(err, cause) {
		t.Fatal("expected AbortError to unwrap to its cause")
	}
}

func TestExecutorErrorFormatsNodeID(t *testing.T) {
	err := &ExecutorError{NodeID: "outline-1", Message: "boom"}
	want := "node outline-1: boom"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}
