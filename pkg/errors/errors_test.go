package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeInvalidSchema, "missing columns: %s", "System"),
			want: "INVALID_SCHEMA: missing columns: System",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeInvalidInput, fmt.Errorf("boom"), "read data.csv"),
			want: "INVALID_INPUT: read data.csv: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeNotFound, "graph not found")

	if !Is(err, ErrCodeNotFound) {
		t.Error("Is() = false, want true for matching code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is() = true, want false for non-matching code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeNotFound) {
		t.Error("Is() = true, want false for plain error")
	}

	// Wrapped errors should still match by code.
	wrapped := fmt.Errorf("outer: %w", err)
	if !Is(wrapped, ErrCodeNotFound) {
		t.Error("Is() = false, want true through wrapping")
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ErrCodeInternal, cause, "operation failed")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is() should find the cause through Unwrap")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidFormat, "bad format")); got != ErrCodeInvalidFormat {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeInvalidFormat)
	}
	if got := GetCode(fmt.Errorf("plain")); got != Code("") {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "unreadable file")); got != "unreadable file" {
		t.Errorf("UserMessage() = %q, want message without code", got)
	}
	if got := UserMessage(fmt.Errorf("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage() = %q, want raw error text", got)
	}
}
