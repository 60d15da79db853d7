package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"todo/domain/shared"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"validation", shared.NewValidationError("task", "task", "task text cannot be empty"), CodeInvalidInput},
		{"not found", shared.NewNotFoundError("task"), CodeNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", shared.NewNotFoundError("task")), CodeNotFound},
		{"corrupt", shared.NewStorageCorruptError("task", stdErrors.New("bad json")), CodeStorageCorrupt},
		{"persist", shared.NewPersistError("task", stdErrors.New("disk full")), CodePersistFailed},
		{"corrupt caused by invalid record", shared.NewStorageCorruptError("task", shared.NewValidationError("task", "task", "empty")), CodeStorageCorrupt},
		{"unknown", stdErrors.New("boom"), CodeInternal},
		{"already app error", BadRequest("bad body"), CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDomainError(tt.err)
			if got.Code != tt.want {
				t.Errorf("FromDomainError() code = %s, want %s", got.Code, tt.want)
			}
		})
	}
}

func TestFromDomainErrorNil(t *testing.T) {
	if got := FromDomainError(nil); got != nil {
		t.Errorf("FromDomainError(nil) = %v, want nil", got)
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	appErr := FromDomainError(stdErrors.New("secret path /var/db"))
	if appErr.Message != "internal server error" {
		t.Errorf("Message = %q", appErr.Message)
	}
	if !stdErrors.Is(appErr, appErr.Err) {
		t.Error("AppError should unwrap to its cause")
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("task not found"))
	if !Is(err, CodeNotFound) {
		t.Error("Is() should match wrapped AppError code")
	}
	if Is(err, CodeInternal) {
		t.Error("Is() matched the wrong code")
	}
	if Is(stdErrors.New("plain"), CodeNotFound) {
		t.Error("Is() matched a non AppError")
	}
}
