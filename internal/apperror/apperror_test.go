package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelsThroughWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", NotFound("project", 7), ErrNotFound},
		{"not found formatted", NotFoundf("user not found for provider %s", "google"), ErrNotFound},
		{"validation", ValidationFailed("email", "email is required"), ErrValidation},
		{"conflict", Conflict("user", "email already registered"), ErrConflict},
		{"forbidden", Forbidden("nope"), ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", tt.err)
			}
			// A layer of fmt.Errorf wrapping must not hide the category.
			wrapped := fmt.Errorf("saving thing: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(wrapped, sentinel) = false")
			}

			var appErr *AppError
			if !errors.As(wrapped, &appErr) {
				t.Fatal("errors.As failed to extract *AppError through a wrap")
			}
			if appErr.Message == "" {
				t.Error("AppError has an empty message")
			}
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("conversation", 12)
	if got, want := err.Error(), "conversation not found with id 12"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationFailedCarriesField(t *testing.T) {
	err := ValidationFailed("title", "title is required")

	var appErr *AppError
	if !errors.As(error(err), &appErr) {
		t.Fatal("errors.As failed")
	}
	if appErr.Field != "title" {
		t.Errorf("Field = %q, want title", appErr.Field)
	}
}

func TestCategoriesAreDistinct(t *testing.T) {
	if errors.Is(NotFound("x", 1), ErrValidation) {
		t.Error("a not-found error matched the validation sentinel")
	}
	if errors.Is(ValidationFailed("f", "m"), ErrConflict) {
		t.Error("a validation error matched the conflict sentinel")
	}
}
