package core

import (
	"testing"

	"github.com/pkg/errors"
)

func Test_ValidationError(t *testing.T) {
	plain := NewValidationError(errors.New("only student profiles go through the approval workflow"))
	if plain.Error() != "only student profiles go through the approval workflow" {
		t.Errorf("Error() = %q", plain.Error())
	}

	withFields := NewValidationError(nil, FieldError{Field: "status", Error: "unknown approval status"})
	vErr, ok := withFields.(*ValidationError)
	if !ok {
		t.Fatalf("NewValidationError() = %T, want *ValidationError", withFields)
	}
	if vErr.Error() != "" {
		t.Errorf("Error() = %q, want empty", vErr.Error())
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "status" {
		t.Errorf("Fields = %+v", vErr.Fields)
	}
}

func Test_IsShutdown(t *testing.T) {
	err := NewShutdownError("database connection is gone")
	if !IsShutdown(err) {
		t.Error("IsShutdown() = false, want true")
	}
	if !IsShutdown(errors.Wrap(err, "authenticating")) {
		t.Error("IsShutdown() = false for wrapped cause, want true")
	}
	if IsShutdown(errors.New("boom")) {
		t.Error("IsShutdown() = true for plain error, want false")
	}
}
