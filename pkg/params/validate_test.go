package params

import (
	"errors"
	"strings"
	"testing"
)

func validParameters() Parameters {
	return Parameters{
		ProjectName:  "test-app",
		ServiceName:  "api-service",
		ServicePort:  "8080",
		GCPProjectID: "test-project-123",
		GCPRegion:    "us-central1",
	}
}

func TestValidate_Accepts(t *testing.T) {
	if err := Validate(validParameters()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Names(t *testing.T) {
	bad := []string{"", "Test-App", "1app", "-app", "app_name", "app name", "app.name", "äpp"}

	for _, v := range bad {
		t.Run("project "+v, func(t *testing.T) {
			p := validParameters()
			p.ProjectName = v
			assertFieldError(t, Validate(p), ProjectName)
		})
		t.Run("service "+v, func(t *testing.T) {
			p := validParameters()
			p.ServiceName = v
			assertFieldError(t, Validate(p), ServiceName)
		})
	}

	for _, v := range []string{"a", "app", "a-1", "my-app-", "api-"} {
		p := validParameters()
		p.ProjectName = v
		p.ServiceName = v
		if err := Validate(p); err != nil {
			t.Errorf("expected %q to be accepted, got %v", v, err)
		}
	}
}

func TestValidate_Port(t *testing.T) {
	tests := []struct {
		port string
		ok   bool
	}{
		{"8080", true},
		{"1024", true},
		{"65535", true},
		{"1023", false},
		{"80", false},
		{"65536", false},
		{"99999", false},
		{"notanumber", false},
		{"", false},
		{"80.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			p := validParameters()
			p.ServicePort = tt.port
			err := Validate(p)
			if tt.ok {
				if err != nil {
					t.Fatalf("expected %q to be accepted, got %v", tt.port, err)
				}
				return
			}
			assertFieldError(t, err, ServicePort)
		})
	}
}

func TestValidate_ProjectID(t *testing.T) {
	tests := []struct {
		id      string
		ok      bool
		message string
	}{
		{"test-project-123", true, ""},
		{"abcdef", true, ""},
		{strings.Repeat("a", 30), true, ""},
		{"abcde", false, "between 6 and 30"},
		{strings.Repeat("a", 31), false, "between 6 and 30"},
		{"project-", false, "end with a letter or number"},
		{"1project", false, "start with a lowercase letter"},
		{"Project-id", false, "start with a lowercase letter"},
		{"a", false, "start with a lowercase letter"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p := validParameters()
			p.GCPProjectID = tt.id
			err := Validate(p)
			if tt.ok {
				if err != nil {
					t.Fatalf("expected %q to be accepted, got %v", tt.id, err)
				}
				return
			}
			fe := assertFieldError(t, err, GCPProjectID)
			if !strings.Contains(fe.Message, tt.message) {
				t.Errorf("expected message containing %q, got %q", tt.message, fe.Message)
			}
		})
	}
}

func TestValidate_ShortCircuitsInFieldOrder(t *testing.T) {
	p := Parameters{
		ProjectName:  "Bad",
		ServiceName:  "Bad",
		ServicePort:  "1",
		GCPProjectID: "x",
	}
	assertFieldError(t, Validate(p), ProjectName)

	p.ProjectName = "ok"
	assertFieldError(t, Validate(p), ServiceName)

	p.ServiceName = "ok"
	assertFieldError(t, Validate(p), ServicePort)

	p.ServicePort = "3000"
	assertFieldError(t, Validate(p), GCPProjectID)
}

func assertFieldError(t *testing.T, err error, field string) *FieldError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error for %s", field)
	}
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %T", err)
	}
	if fe.Field != field {
		t.Errorf("expected failing field %s, got %s (%v)", field, fe.Field, err)
	}
	return fe
}
