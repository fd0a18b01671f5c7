// Package work runs independent per-asset jobs on a bounded worker pool.
package work

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/fulmenhq/brandkit/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Item is one unit of work. ID is used in logs and results.
type Item[T any] struct {
	ID    string
	Value T
}

// Result is the outcome of one Item, reported at the item's input position.
type Result[R any] struct {
	ID       string
	Value    R
	Err      error
	Duration time.Duration
}

// Summary provides a summary of the execution
type Summary struct {
	TotalItems    int           `json:"total_items"`
	Successful    int           `json:"successful"`
	Failed        int           `json:"failed"`
	Workers       int           `json:"workers"`
	TotalDuration time.Duration `json:"total_duration"`
}

// DispatcherConfig configures the dispatcher
type DispatcherConfig struct {
	MaxWorkers int
	// Label names the batch in log output.
	Label string
	// ProgressCallback is invoked once per finished item, never concurrently.
	ProgressCallback func(id string, err error)
}

// Dispatcher handles parallel execution of a batch
type Dispatcher struct {
	config DispatcherConfig
}

// NewDispatcher creates a new work dispatcher
func NewDispatcher(config DispatcherConfig) *Dispatcher {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = runtime.NumCPU()
	}
	if config.Label == "" {
		config.Label = "batch"
	}
	return &Dispatcher{config: config}
}

// Workers returns the pool size.
func (d *Dispatcher) Workers() int { return d.config.MaxWorkers }

// Run applies fn to every item with at most MaxWorkers in flight. A failing
// item does not stop the others; its error is kept in its Result. Results
// are returned in input order. The returned error is non-nil only when ctx
// is cancelled, in which case unstarted items carry ctx.Err().
func Run[T, R any](ctx context.Context, d *Dispatcher, items []Item[T], fn func(context.Context, T) (R, error)) ([]Result[R], Summary, error) {
	start := time.Now()
	results := make([]Result[R], len(items))

	logger.Debug(fmt.Sprintf("Starting %s of %d items with %d workers", d.config.Label, len(items), d.config.MaxWorkers))

	var progressMu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(d.config.MaxWorkers)
	for i, item := range items {
		results[i].ID = item.ID
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		i, item := i, item
		g.Go(func() error {
			itemStart := time.Now()
			v, err := fn(ctx, item.Value)
			results[i].Value = v
			results[i].Err = err
			results[i].Duration = time.Since(itemStart)

			if d.config.ProgressCallback != nil {
				progressMu.Lock()
				d.config.ProgressCallback(item.ID, err)
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{
		TotalItems:    len(items),
		Workers:       d.config.MaxWorkers,
		TotalDuration: time.Since(start),
	}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Successful++
		}
	}

	logger.Debug(fmt.Sprintf("%s completed: %d successful, %d failed", d.config.Label, summary.Successful, summary.Failed),
		logger.Duration("duration", summary.TotalDuration))
	return results, summary, ctx.Err()
}

// Items wraps values as work items using id to name each one.
func Items[T any](values []T, id func(T) string) []Item[T] {
	out := make([]Item[T], len(values))
	for i, v := range values {
		out[i] = Item[T]{ID: id(v), Value: v}
	}
	return out
}
