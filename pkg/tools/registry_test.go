package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubTool struct {
	name   string
	output string
	err    error
	panics bool
}

func (s *stubTool) Name() string { return s.name }

func (s *stubTool) Run(ctx context.Context, params map[string]interface{}) (string, error) {
	if s.panics {
		panic("nil deref in tool")
	}
	return s.output, s.err
}

func TestRegistryExecuteSuccess(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(&stubTool{name: "check_calendar", output: "Available at 10:00"})

	result := r.Execute(context.Background(), "check_calendar", nil)
	if !result.Success {
		t.Fatalf("error: %s", result.Error)
	}
	if result.Output != "Available at 10:00" {
		t.Errorf("output = %q", result.Output)
	}
}

func TestRegistryUnknownToolIsStructuredFailure(t *testing.T) {
	r := NewRegistry(nil)

	result := r.Execute(context.Background(), "launch_rocket", nil)
	if result.Success {
		t.Fatal("unknown tool must fail")
	}
	if !strings.Contains(result.Error, "unknown tool") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestRegistryToolErrorIsCarried(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(&stubTool{name: "query_crm", err: errors.New("crm returned 503")})

	result := r.Execute(context.Background(), "query_crm", nil)
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error != "crm returned 503" {
		t.Errorf("error = %q", result.Error)
	}
}

func TestRegistryRecoversFromToolPanic(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(&stubTool{name: "send_email", panics: true})

	result := r.Execute(context.Background(), "send_email", nil)
	if result.Success {
		t.Fatal("panicking tool must fail")
	}
	if !strings.Contains(result.Error, "tool panic") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestStringParam(t *testing.T) {
	params := map[string]interface{}{"to": "a@b.c", "count": 3}
	if got := stringParam(params, "to"); got != "a@b.c" {
		t.Errorf("to = %q", got)
	}
	if got := stringParam(params, "count"); got != "" {
		t.Errorf("non-string param must read empty, got %q", got)
	}
	if got := stringParam(nil, "to"); got != "" {
		t.Errorf("nil params must read empty, got %q", got)
	}
}
