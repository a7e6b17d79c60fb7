// Package modelruntime abstracts the generative model behind a single Decode
// capability and rations concurrent access to it through execution lanes.
package modelruntime

import (
	"context"
	"fmt"
	"sync"

	"github.com/saywise/saywise-ai-platform/internal/schema"
)

// DecodeOptions carries per-call sampling parameters. A zero MaxTokens means
// "use the lane's default budget".
type DecodeOptions struct {
	Temperature float32
	MaxTokens   int32
}

// Runtime is the sole capability required of the model collaborator: given a
// prompt and an output-shape constraint, produce text.
type Runtime interface {
	Decode(ctx context.Context, prompt string, grammar *schema.Schema, opts DecodeOptions) (string, error)
}

// Lane is an isolated decoding sequence. Lanes share the loaded model but are
// exclusively owned by one batch at a time; the pool enforces that ownership.
type Lane struct {
	runtime   Runtime
	maxTokens int32
}

// Decode runs one generation on this lane, applying the lane's default token
// budget when the caller left MaxTokens unset.
func (l *Lane) Decode(ctx context.Context, prompt string, grammar *schema.Schema, opts DecodeOptions) (string, error) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = l.maxTokens
	}
	return l.runtime.Decode(ctx, prompt, grammar, opts)
}

// Pool hands out execution lanes against a shared runtime with bounded
// concurrency. Acquire blocks until the requested lanes are free, so two
// concurrent batches never interleave on the same lane.
type Pool struct {
	runtime   Runtime
	sem       chan struct{}
	maxTokens int32
}

// NewPool creates a lane pool of the given size. defaultMaxTokens is the
// context budget applied to decodes that do not set their own.
func NewPool(rt Runtime, lanes int, defaultMaxTokens int32) *Pool {
	if rt == nil {
		panic("modelruntime: runtime cannot be nil")
	}
	if lanes <= 0 {
		panic("modelruntime: pool needs at least one lane")
	}
	return &Pool{
		runtime:   rt,
		sem:       make(chan struct{}, lanes),
		maxTokens: defaultMaxTokens,
	}
}

// Size returns the number of lanes in the pool.
func (p *Pool) Size() int {
	return cap(p.sem)
}

// Acquire reserves n lanes, blocking until they are available or ctx is done.
// The returned release func returns the lanes to the pool; it is safe to call
// more than once and must be called on both success and failure paths.
func (p *Pool) Acquire(ctx context.Context, n int) ([]*Lane, func(), error) {
	if n <= 0 || n > cap(p.sem) {
		return nil, nil, fmt.Errorf("modelruntime: cannot acquire %d lanes from a pool of %d", n, cap(p.sem))
	}

	acquired := 0
	for i := 0; i < n; i++ {
		select {
		case p.sem <- struct{}{}:
			acquired++
		case <-ctx.Done():
			for j := 0; j < acquired; j++ {
				<-p.sem
			}
			return nil, nil, fmt.Errorf("modelruntime: lane acquisition cancelled: %w", ctx.Err())
		}
	}

	lanes := make([]*Lane, n)
	for i := range lanes {
		lanes[i] = &Lane{runtime: p.runtime, maxTokens: p.maxTokens}
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			for i := 0; i < n; i++ {
				<-p.sem
			}
		})
	}
	return lanes, release, nil
}
