package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pios/sched"
)

const instrumentation = "pios/sched"

// Observer implements sched.Observer. Its methods are called by the task that
// owns the CPU, so it needs no locking.
type Observer struct {
	tracer  trace.Tracer
	running trace.Span
	pid     sched.Handle
}

// NewObserver returns an observer recording into tp, or into the global
// provider when tp is nil.
func NewObserver(tp trace.TracerProvider) *Observer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Observer{tracer: tp.Tracer(instrumentation), pid: sched.NoHandle}
}

func (o *Observer) OnCreate(h sched.Handle, t *sched.Task) {
	_, span := o.tracer.Start(context.Background(), "copy_process",
		trace.WithAttributes(
			attribute.Int("pid", int(h)),
			attribute.Int64("priority", t.Priority),
			attribute.Int64("counter", t.Counter),
			attribute.String("sp", fmt.Sprintf("0x%x", t.CPU.SP)),
			attribute.String("page", fmt.Sprintf("0x%x", t.Page)),
		))
	span.End()
}

func (o *Observer) OnSwitch(prev, next sched.Handle, reason string) {
	if o.running != nil {
		o.running.SetAttributes(attribute.String("preempted_by", reason))
		o.running.End()
	}
	_, o.running = o.tracer.Start(context.Background(), fmt.Sprintf("run pid=%d", next),
		trace.WithAttributes(
			attribute.Int("pid", int(next)),
			attribute.Int("prev", int(prev)),
			attribute.String("reason", reason),
		))
	o.pid = next
}

func (o *Observer) OnDecay(pass uint64) {
	if o.running == nil {
		return
	}
	o.running.AddEvent("decay", trace.WithAttributes(attribute.Int64("pass", int64(pass))))
}

// Close ends the span of the task currently running.
func (o *Observer) Close() {
	if o.running != nil {
		o.running.End()
		o.running = nil
	}
	o.pid = sched.NoHandle
}

// Running returns the task whose dispatch span is open.
func (o *Observer) Running() sched.Handle { return o.pid }
