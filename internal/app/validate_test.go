package app

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		rules      []FieldRule
		wantFields []string
	}{
		{
			name: "all rules pass",
			rules: []FieldRule{
				{Name: "email", Checks: []func() string{Required("ada@example.com"), Email("ada@example.com")}},
				{Name: "amount", Checks: []func() string{Positive(100)}},
			},
		},
		{
			name: "missing required field",
			rules: []FieldRule{
				{Name: "title", Checks: []func() string{Required("   ")}},
			},
			wantFields: []string{"title"},
		},
		{
			name: "invalid email",
			rules: []FieldRule{
				{Name: "email", Checks: []func() string{Required("not-an-email"), Email("not-an-email")}},
			},
			wantFields: []string{"email"},
		},
		{
			name: "empty email composes with required",
			rules: []FieldRule{
				{Name: "email", Checks: []func() string{Required(""), Email("")}},
			},
			wantFields: []string{"email"},
		},
		{
			name: "zero amount",
			rules: []FieldRule{
				{Name: "amount", Checks: []func() string{Positive(0)}},
			},
			wantFields: []string{"amount"},
		},
		{
			name: "value outside allowed set",
			rules: []FieldRule{
				{Name: "method", Checks: []func() string{Required("venmo"), OneOf("venmo", "paypal", "bank")}},
			},
			wantFields: []string{"method"},
		},
		{
			name: "multiple failing fields collected together",
			rules: []FieldRule{
				{Name: "title", Checks: []func() string{Required("")}},
				{Name: "amount", Checks: []func() string{Positive(-5)}},
			},
			wantFields: []string{"title", "amount"},
		},
		{
			name: "first failing check wins per field",
			rules: []FieldRule{
				{Name: "password", Checks: []func() string{Required(""), MinLength("", 8)}},
			},
			wantFields: []string{"password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rules...)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(validationErr.Fields) != len(tt.wantFields) {
				t.Fatalf("expected %d failing fields, got %v", len(tt.wantFields), validationErr.Fields)
			}
			for _, field := range tt.wantFields {
				if _, ok := validationErr.Fields[field]; !ok {
					t.Fatalf("expected field %q to fail, got %v", field, validationErr.Fields)
				}
			}
		})
	}
}

func TestMaxLength(t *testing.T) {
	if msg := MaxLength("short", 10)(); msg != "" {
		t.Fatalf("expected pass, got %q", msg)
	}
	if msg := MaxLength("this value is definitely too long", 10)(); msg == "" {
		t.Fatal("expected failure for overlong value")
	}
}
