package format

import (
	"errors"
	"testing"
)

func sampleFields() Fields {
	return Fields{
		Action:   "shell",
		Changed:  "true",
		Host:     "web01",
		Playbook: "site.yml",
		Role:     "nginx",
		Status:   "OK",
		Name:     "Install nginx",
	}
}

func TestRenderDefaultTemplate(t *testing.T) {
	got, err := Render(DefaultTemplate, sampleFields())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "status=OK action=shell changed=true play=site.yml role=nginx host=web01 name=Install nginx"
	if got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestRenderDisallowedSyntax(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"attribute access", "{status.internal}"},
		{"index access", "{status[0]}"},
		{"call", "{status()}"},
		{"nested deep", "prefix {result.stdout} suffix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.template, sampleFields())
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FormatError, got %v", err)
			}
		})
	}
}

func TestRenderUnknownPlaceholderIsEmpty(t *testing.T) {
	got, err := Render("a={unknown} b={status}", sampleFields())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "a= b=OK" {
		t.Errorf("line = %q, want %q", got, "a= b=OK")
	}
}

func TestRenderEmptyFieldValues(t *testing.T) {
	got, err := Render("role={role} name={name}", Fields{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "role= name=" {
		t.Errorf("line = %q, want %q", got, "role= name=")
	}
}

func TestRenderStripsWhitespace(t *testing.T) {
	got, err := Render("   {status}   ", sampleFields())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "OK" {
		t.Errorf("line = %q, want %q", got, "OK")
	}
}

func TestRenderEscapedBraces(t *testing.T) {
	got, err := Render("{{status}} is {status}", sampleFields())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "{status} is OK" {
		t.Errorf("line = %q, want %q", got, "{status} is OK")
	}
}

func TestRenderUnterminatedPlaceholder(t *testing.T) {
	got, err := Render("tail {status", sampleFields())
	if err != nil {
		t.Fatalf("Render must not fail on unterminated placeholder: %v", err)
	}
	if got != "tail {status" {
		t.Errorf("line = %q, want %q", got, "tail {status")
	}
}

func TestRenderNoPlaceholders(t *testing.T) {
	got, err := Render("plain text", sampleFields())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "plain text" {
		t.Errorf("line = %q, want %q", got, "plain text")
	}
}
