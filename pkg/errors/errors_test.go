package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidFormat, "unsupported format %q", "gif"), `INVALID_FORMAT: unsupported format "gif"`},
		{"with cause", Wrap(ErrCodeOutputWrite, errors.New("disk full"), "write %s", "bus.svg"), "OUTPUT_WRITE: write bus.svg: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidWaveJSON, cause, "decode bus.json")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	var target *Error
	if !errors.As(fmt.Errorf("bus.json: %w", err), &target) || target.Code != ErrCodeInvalidWaveJSON {
		t.Errorf("errors.As through fmt.Errorf = %v", target)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidEdge, "bad edge"), ErrCodeInvalidEdge, true},
		{"non-matching code", New(ErrCodeInvalidEdge, "bad edge"), ErrCodeInvalidStyle, false},
		{"outermost code wins", Wrap(ErrCodeInvalidWaveJSON, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeInvalidWaveJSON, true},
		{"behind fmt.Errorf", fmt.Errorf("a.json: %w", New(ErrCodeFileNotFound, "missing")), ErrCodeFileNotFound, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeInvalidStyle, "signal.height out of range"), ErrCodeInvalidStyle},
		{"wrapped by caller", fmt.Errorf("document skin: %w", New(ErrCodeInvalidPath, "escape")), ErrCodeInvalidPath},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidInput, "unknown font %q", "comic"), `unknown font "comic"`},
		{"plain", errors.New("plain error"), "plain error"},
		{"wrapped chain", Wrap(ErrCodeInvalidWaveJSON, New(ErrCodeInvalidEdge, "bad edge"), "decode figure"), "decode figure: bad edge"},
		{"wrapped plain cause", Wrap(ErrCodeOutputWrite, errors.New("disk full"), "write out.svg"), "write out.svg: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %v, want %v", got, tt.want)
			}
		})
	}
}
