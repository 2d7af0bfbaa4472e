package planning

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"ai-chatbot-be/pkg/rag/retrieval"
)

// ActionHandler executes one plan action against the pipeline primitives.
type ActionHandler interface {
	Handle(ctx context.Context, action Action, scope retrieval.TenantScope, cfg retrieval.Config, shared map[string]interface{}) (string, error)
}

// Executor runs a plan strictly in order. The one exception: a run of two or
// more adjacent optional actions fans out on the shared worker pool, since
// none of them can halt the plan and none may depend on the other's output.
type Executor struct {
	handler ActionHandler
	pool    *ants.Pool
	logger  *log.Logger
}

func NewExecutor(handler ActionHandler, pool *ants.Pool, logger *log.Logger) *Executor {
	return &Executor{handler: handler, pool: pool, logger: logger}
}

// Run executes the plan. A mandatory action's failure halts execution;
// optional failures are recorded and skipped over.
func (e *Executor) Run(ctx context.Context, plan Plan, scope retrieval.TenantScope, cfg retrieval.Config) Execution {
	exec := Execution{Plan: plan}
	shared := make(map[string]interface{})

	i := 0
	for i < len(plan.Actions) {
		if plan.Actions[i].Optional {
			j := i
			for j < len(plan.Actions) && plan.Actions[j].Optional {
				j++
			}
			if j-i >= 2 {
				batch := e.runBatch(ctx, plan.Actions[i:j], scope, cfg, shared)
				for k, result := range batch {
					e.record(&exec, shared, i+k, result)
				}
				i = j
				continue
			}
		}

		result := e.runOne(ctx, plan.Actions[i], scope, cfg, shared)
		e.record(&exec, shared, i, result)
		if !result.Success && !result.Optional {
			e.logf("[EXECUTOR] Step %d (%s) failed, halting plan: %s", i+1, result.Type, result.Error)
			exec.Halted = true
			return exec
		}
		i++
	}
	return exec
}

func (e *Executor) runOne(ctx context.Context, action Action, scope retrieval.TenantScope, cfg retrieval.Config, shared map[string]interface{}) ActionResult {
	start := time.Now()
	output, err := e.handler.Handle(ctx, action, scope, cfg, shared)

	result := ActionResult{
		Type:     action.Type,
		Optional: action.Optional,
		Latency:  time.Since(start),
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	result.Output = output
	return result
}

// runBatch fans the actions out on the pool and returns their results in
// plan order. Each action sees a snapshot of the shared context; merges
// happen on the caller's goroutine afterwards.
func (e *Executor) runBatch(ctx context.Context, actions []Action, scope retrieval.TenantScope, cfg retrieval.Config, shared map[string]interface{}) []ActionResult {
	results := make([]ActionResult, len(actions))

	snapshot := make(map[string]interface{}, len(shared))
	for k, v := range shared {
		snapshot[k] = v
	}

	var wg sync.WaitGroup
	for idx := range actions {
		idx := idx
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[idx] = e.runOne(ctx, actions[idx], scope, cfg, snapshot)
		}
		if e.pool == nil || e.pool.Submit(task) != nil {
			task()
		}
	}
	wg.Wait()
	return results
}

// record appends the result and folds its output into the shared context.
func (e *Executor) record(exec *Execution, shared map[string]interface{}, step int, result ActionResult) {
	exec.Results = append(exec.Results, result)
	if !result.Success {
		return
	}
	shared[fmt.Sprintf("step_%d", step+1)] = result.Output
	if knowledge, _ := shared["knowledge"].(string); knowledge == "" {
		shared["knowledge"] = result.Output
	} else {
		shared["knowledge"] = knowledge + "\n\n" + result.Output
	}
}

func (e *Executor) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
