package validator

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Email  string `validate:"required,email"`
	Status string `validate:"required,oneof=pending paid cancelled"`
	Age    int    `validate:"gte=0,lte=150"`
}

func TestValidatePasses(t *testing.T) {
	cv := NewValidator()
	err := cv.Validate(&sampleRequest{Email: "desk@clinic.test", Status: "pending", Age: 30})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestFormatValidationErrors(t *testing.T) {
	cv := NewValidator()
	err := cv.Validate(&sampleRequest{Email: "nope", Status: "unknown", Age: 200})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	fields := cv.FormatValidationErrors(err)
	if msg := fields["Email"]; !strings.Contains(msg, "valid email") {
		t.Errorf("Email message = %q", msg)
	}
	if msg := fields["Status"]; !strings.Contains(msg, "one of") {
		t.Errorf("Status message = %q", msg)
	}
	if msg := fields["Age"]; !strings.Contains(msg, "150") {
		t.Errorf("Age message = %q", msg)
	}
}

func TestFormatValidationErrorsRequired(t *testing.T) {
	cv := NewValidator()
	err := cv.Validate(&sampleRequest{})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	fields := cv.FormatValidationErrors(err)
	if msg := fields["Email"]; !strings.Contains(msg, "required") {
		t.Errorf("Email message = %q", msg)
	}
}
