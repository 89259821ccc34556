package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestConfigure(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"json debug", "debug", "json"},
		{"text info", "info", "text"},
		{"unknown values fall back", "nope", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Configure(tt.level, tt.format)
			if logger == nil {
				t.Fatal("Configure returned nil")
			}
			if slog.Default() != logger {
				t.Error("Configure should install the logger as slog default")
			}
		})
	}
}

func TestWithOperation(t *testing.T) {
	logger := slog.Default()
	result := WithOperation(logger, "test_operation")
	if result == nil {
		t.Error("WithOperation returned nil")
	}
}

func TestWithService(t *testing.T) {
	logger := slog.Default()
	result := WithService(logger, "sheets")
	if result == nil {
		t.Error("WithService returned nil")
	}
}

func TestOperationAttr(t *testing.T) {
	attr := Operation("test_op")
	if attr.Key != KeyOperation {
		t.Errorf("Operation key = %q, want %q", attr.Key, KeyOperation)
	}
	if attr.Value.String() != "test_op" {
		t.Errorf("Operation value = %q, want %q", attr.Value.String(), "test_op")
	}
}

func TestSheetIDAttr(t *testing.T) {
	attr := SheetID("ABC123")
	if attr.Key != KeySheetID {
		t.Errorf("SheetID key = %q, want %q", attr.Key, KeySheetID)
	}
	if attr.Value.String() != "ABC123" {
		t.Errorf("SheetID value = %q, want %q", attr.Value.String(), "ABC123")
	}
}

func TestErrAttr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "boom")
	}
}

func TestErrAttrNil(t *testing.T) {
	attr := Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty group", attr.Key)
	}
}

func TestAnonymizeEmail(t *testing.T) {
	if AnonymizeEmail("") != "" {
		t.Error("AnonymizeEmail of empty string should be empty")
	}

	a := AnonymizeEmail("ann@example.com")
	b := AnonymizeEmail("ann@example.com")
	c := AnonymizeEmail("bo@example.com")

	if a != b {
		t.Error("AnonymizeEmail should be deterministic")
	}
	if a == c {
		t.Error("different emails should hash differently")
	}
	if a == "ann@example.com" {
		t.Error("AnonymizeEmail must not return the raw email")
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %q", got)
	}
	got := SanitizeToken("supersecrettoken")
	if got != "[token:16 chars]" {
		t.Errorf("SanitizeToken = %q, want length indicator", got)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ann@example.com", "example.com"},
		{"", ""},
		{"not-an-email", ""},
		{"a@b@c", ""},
	}

	for _, tt := range tests {
		if got := ExtractDomain(tt.email); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}
