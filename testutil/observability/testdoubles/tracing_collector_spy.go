package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
)

// SpanContextSpy is the eventstore.SpanContext handed out by TracingCollectorSpy.
type SpanContextSpy struct {
	name       string
	status     string
	attributes map[string]string
	finished   bool
	mu         sync.Mutex
}

func (c *SpanContextSpy) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

func (c *SpanContextSpy) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attributes[key] = value
}

// Name returns the span name.
func (c *SpanContextSpy) Name() string {
	return c.name
}

// Status returns the status the span was finished with.
func (c *SpanContextSpy) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Attributes returns a copy of the start and finish attributes.
func (c *SpanContextSpy) Attributes() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.attributes)
}

// Finished reports whether FinishSpan was called for the span.
func (c *SpanContextSpy) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished
}

// TracingCollectorSpy captures the spans started through the eventstore.TracingCollector interface.
type TracingCollectorSpy struct {
	spans []*SpanContextSpy
	mu    sync.Mutex
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	span := &SpanContextSpy{name: name, attributes: maps.Clone(attrs)}
	if span.attributes == nil {
		span.attributes = make(map[string]string)
	}
	s.spans = append(s.spans, span)

	return ctx, span
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpanContextSpy)
	if !ok {
		return
	}

	span.SetStatus(status)
	for k, v := range attrs {
		span.AddAttribute(k, v)
	}

	span.mu.Lock()
	span.finished = true
	span.mu.Unlock()
}

// Spans returns the captured spans with the name, in start order.
func (s *TracingCollectorSpy) Spans(name string) []*SpanContextSpy {
	s.mu.Lock()
	defer s.mu.Unlock()

	spans := make([]*SpanContextSpy, 0)
	for _, span := range s.spans {
		if span.name == name {
			spans = append(spans, span)
		}
	}

	return spans
}

var _ eventstore.TracingCollector = (*TracingCollectorSpy)(nil)
