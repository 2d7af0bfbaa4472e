package tools

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Tool is a single side-effecting capability the planner can invoke.
type Tool interface {
	Name() string
	Run(ctx context.Context, params map[string]interface{}) (string, error)
}

// Result is the structured outcome of one tool invocation. Execute never
// panics and never returns a Go error; failures are carried in the result.
type Result struct {
	Tool    string `json:"tool"`
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Registry dispatches tool invocations by name.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger *log.Logger
}

func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger,
	}
}

func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

// Execute runs the named tool. Unknown names and tool panics both resolve to
// a failed Result.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]interface{}) (result Result) {
	result = Result{Tool: name}

	defer func() {
		if rec := recover(); rec != nil {
			result.Success = false
			result.Error = fmt.Sprintf("tool panic: %v", rec)
			r.logf("[TOOLS] %s panicked: %v", name, rec)
		}
	}()

	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		result.Error = fmt.Sprintf("unknown tool %q", name)
		r.logf("[TOOLS] unknown tool requested: %s", name)
		return result
	}

	output, err := tool.Run(ctx, params)
	if err != nil {
		result.Error = err.Error()
		r.logf("[TOOLS] %s failed: %v", name, err)
		return result
	}

	result.Success = true
	result.Output = output
	return result
}

func (r *Registry) logf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// stringParam reads a string parameter, tolerating absent keys.
func stringParam(params map[string]interface{}, key string) string {
	if params == nil {
		return ""
	}
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}
