package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidOption, "maxblocks must be >= 2, got %d", 1)

	if err.Code != ErrCodeInvalidOption {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidOption)
	}
	if err.Message != "maxblocks must be >= 2, got 1" {
		t.Errorf("Message = %q", err.Message)
	}
	want := "INVALID_OPTION: maxblocks must be >= 2, got 1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("no such file")
	err := Wrap(ErrCodeParse, cause, "failed to read %s", "model.mps")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	want := "PARSE_ERROR: failed to read model.mps: no such file"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeNotFound, "decomposition missing")

	if !Is(err, ErrCodeNotFound) {
		t.Error("Is() should match the error's own code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is() should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeNotFound) {
		t.Error("Is() should not match plain errors")
	}
}

func TestIsWrappedInChain(t *testing.T) {
	inner := New(ErrCodeInvalidMatrix, "empty constraint matrix")
	outer := fmt.Errorf("detection: %w", inner)

	if !Is(outer, ErrCodeInvalidMatrix) {
		t.Error("Is() should unwrap fmt.Errorf chains")
	}
	if GetCode(outer) != ErrCodeInvalidMatrix {
		t.Errorf("GetCode() = %q, want %q", GetCode(outer), ErrCodeInvalidMatrix)
	}
}

func TestGetCodePlainError(t *testing.T) {
	if code := GetCode(stderrors.New("plain")); code != "" {
		t.Errorf("GetCode(plain) = %q, want empty", code)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "input file is required")
	if msg := UserMessage(err); msg != "input file is required" {
		t.Errorf("UserMessage() = %q", msg)
	}

	plain := stderrors.New("plain failure")
	if msg := UserMessage(plain); msg != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", msg)
	}
}
