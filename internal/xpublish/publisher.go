package xpublish

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blacktop/xpublish/internal/logutil"
)

// DefaultTimeout bounds a single destination call.
const DefaultTimeout = 30 * time.Second

// Publisher fans content out to a set of adapters.
type Publisher struct {
	adapters map[Key]Adapter
	timeout  time.Duration
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithTimeout sets the per-destination timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) { p.timeout = d }
}

// NewPublisher builds a Publisher over adapters. A later adapter for the same key replaces an earlier one.
func NewPublisher(adapters []Adapter, opts ...Option) *Publisher {
	p := &Publisher{
		adapters: make(map[Key]Adapter, len(adapters)),
		timeout:  DefaultTimeout,
	}
	for _, a := range adapters {
		p.adapters[a.Key()] = a
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish validates req and publishes to every requested destination
// concurrently. A *ValidationError means nothing was attempted; otherwise the
// result holds exactly one outcome per unique destination, in request order.
func (p *Publisher) Publish(ctx context.Context, req Request) ([]Outcome, error) {
	req, err := Validate(req)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(req.Platforms))
	var wg sync.WaitGroup
	for i, key := range req.Platforms {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = p.publishOne(ctx, req.Content, key)
		}()
	}
	wg.Wait()

	return outcomes, nil
}

func (p *Publisher) publishOne(ctx context.Context, content Content, key Key) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = p.fault(key, fmt.Errorf("panic: %v", r))
		}
	}()

	adapter, ok := p.adapters[key]
	if !ok {
		return p.fault(key, errors.New("no adapter configured"))
	}

	if missing := adapter.Missing(); len(missing) > 0 {
		reason := MissingEnvError{Provider: key, Variables: missing}.Error()
		logutil.Destination(string(key)).Info("skipping", "reason", reason)
		return Skipped(key, reason)
	}

	payload, err := Shape(content, key)
	if err != nil {
		return p.fault(key, err)
	}

	logutil.Destination(string(key)).Debug("publishing")
	return p.call(ctx, key, adapter, payload)
}

func (p *Publisher) call(ctx context.Context, key Key, adapter Adapter, payload Payload) Outcome {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	done := make(chan Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- p.fault(key, fmt.Errorf("panic: %v", r))
			}
		}()
		done <- adapter.Publish(ctx, payload)
	}()

	select {
	case out := <-done:
		return p.checked(key, out)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && p.timeout > 0 {
			logutil.Destination(string(key)).Warn("timed out", "after", p.timeout)
			return Outcome{Platform: key, Status: StatusFailed, Message: fmt.Sprintf("timed out after %s", p.timeout)}
		}
		return Failed(key, ctx.Err())
	}
}

// checked guards against adapters that report for the wrong key or without a status.
func (p *Publisher) checked(key Key, out Outcome) Outcome {
	switch out.Status {
	case StatusSuccess, StatusSkipped, StatusFailed:
	default:
		return p.fault(key, fmt.Errorf("adapter returned invalid status %q", out.Status))
	}
	out.Platform = key
	if out.Status == StatusFailed {
		logutil.Destination(string(key)).Warn("failed", "message", out.Message)
	}
	return out
}

func (p *Publisher) fault(key Key, cause error) Outcome {
	err := &InternalFault{Destination: key, Cause: cause}
	logutil.Destination(string(key)).Error("internal fault", "err", cause)
	return Failed(key, err)
}

// Plan is the dry-run view of one destination.
type Plan struct {
	Key     Key
	Payload Payload
	Missing []string
	Err     error
}

// Plan validates req and shapes the content for every requested destination
// without contacting any of them.
func (p *Publisher) Plan(req Request) ([]Plan, error) {
	req, err := Validate(req)
	if err != nil {
		return nil, err
	}

	plans := make([]Plan, 0, len(req.Platforms))
	for _, key := range req.Platforms {
		plan := Plan{Key: key}
		if adapter, ok := p.adapters[key]; ok {
			plan.Missing = adapter.Missing()
		} else {
			plan.Err = errors.New("no adapter configured")
		}
		if plan.Err == nil {
			plan.Payload, plan.Err = Shape(req.Content, key)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
