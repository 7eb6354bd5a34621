package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors_SetKind(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"NotFound", NotFound("x"), ErrNotFound},
		{"NotFoundf", NotFoundf("x %d", 1), ErrNotFound},
		{"Validation", Validation("x"), ErrValidation},
		{"Validationf", Validationf("x %s", "y"), ErrValidation},
		{"ValidationCode", ValidationCode("empty_ballot", "x"), ErrValidation},
		{"Conflict", Conflict("x"), ErrConflict},
		{"Conflictf", Conflictf("x %d", 2), ErrConflict},
		{"InvalidInput", InvalidInput("x"), ErrInvalidInput},
		{"InvalidInputf", InvalidInputf("x %d", 3), ErrInvalidInput},
		{"Internal", Internal(errors.New("db")), ErrInternal},
		{"Internalf", Internalf("x %d", 4), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.err.Kind)
			}
		})
	}
}

func TestFormattedMessages(t *testing.T) {
	if got := NotFoundf("event %d not found", 7).Message; got != "event 7 not found" {
		t.Errorf("unexpected message %q", got)
	}
	if got := Validationf("place %s is invalid", "x").Message; got != "place x is invalid" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestErrorMethod(t *testing.T) {
	plain := Validation("empty ballot")
	if plain.Error() != "empty ballot" {
		t.Errorf("expected plain message, got %q", plain.Error())
	}

	wrapped := Wrap(errors.New("disk full"), ErrInternal, "write failed")
	if wrapped.Error() != "write failed: disk full" {
		t.Errorf("expected wrapped message, got %q", wrapped.Error())
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := Internal(inner)

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the underlying error")
	}
	if err.Unwrap() != inner {
		t.Error("expected Unwrap to return the underlying error")
	}
}

func TestIs_MatchesKindAndCode(t *testing.T) {
	duplicate := ValidationCode("duplicate_ballot", "already voted")
	specific := duplicate.WithMessage("user 4 already voted in event 2")

	if !errors.Is(specific, duplicate) {
		t.Error("expected errors.Is to match on kind and code")
	}
	if errors.Is(specific, ValidationCode("empty_ballot", "")) {
		t.Error("expected different codes not to match")
	}
	if !errors.Is(specific, &Error{Kind: ErrValidation}) {
		t.Error("expected a code-less target to match on kind")
	}
	if errors.Is(specific, &Error{Kind: ErrNotFound}) {
		t.Error("expected different kinds not to match")
	}
}

func TestIs_ThroughFmtWrap(t *testing.T) {
	base := ValidationCode("voting_closed", "voting is closed")
	err := fmt.Errorf("cast ballot: %w", base)

	if !errors.Is(err, base) {
		t.Error("expected errors.Is to see through fmt wrapping")
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("expected errors.As to extract *Error")
	}
	if appErr.Code != "voting_closed" {
		t.Errorf("expected code voting_closed, got %q", appErr.Code)
	}
}

func TestWithField_DoesNotMutateOriginal(t *testing.T) {
	base := ValidationCode("entry_not_found", "entry not found")
	scoped := base.WithField("P.1")

	if scoped.Field != "P.1" {
		t.Errorf("expected field P.1, got %q", scoped.Field)
	}
	if base.Field != "" {
		t.Errorf("expected original field to stay empty, got %q", base.Field)
	}
	if scoped.Code != base.Code {
		t.Error("expected code to be preserved")
	}
}

func TestWithMessagef(t *testing.T) {
	err := ValidationCode("too_many_selections", "too many").WithMessagef("at most %d selections", 3)
	if err.Message != "at most 3 selections" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != "" {
		t.Errorf("expected empty code for nil, got %q", got)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("expected empty code for plain error, got %q", got)
	}
	wrapped := fmt.Errorf("outer: %w", ValidationCode("empty_ballot", "empty"))
	if got := CodeOf(wrapped); got != "empty_ballot" {
		t.Errorf("expected empty_ballot, got %q", got)
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		ErrInternal:     "internal",
		ErrNotFound:     "not_found",
		ErrValidation:   "validation",
		ErrConflict:     "conflict",
		ErrInvalidInput: "invalid_input",
	}
	for kind, want := range tests {
		if kind.String() != want {
			t.Errorf("expected %q, got %q", want, kind.String())
		}
	}
}
