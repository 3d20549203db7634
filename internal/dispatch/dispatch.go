// Package dispatch routes named operations to typed resolvers and shapes
// their results into a JSON envelope.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"postboard/internal/logger"
	"postboard/internal/metrics"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Kind mirrors the query/mutation split of the operation surface.
type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrMalformedArgs    = errors.New("malformed arguments")
)

// Request is the body accepted by the operation endpoint.
type Request struct {
	Operation string          `json:"operation"`
	Args      json.RawMessage `json:"args,omitempty" swaggertype:"object"`
}

// FieldError reports a failure scoped to one operation.
type FieldError struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

// Response is the envelope returned for every dispatched operation.
type Response struct {
	Data   any          `json:"data"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Observer receives per-operation outcomes; *metrics.Collector satisfies it.
type Observer interface {
	Observe(operation, outcome string, d time.Duration)
	Reject(operation string)
}

// ErrorCarrier is implemented by results that can hold a domain error.
type ErrorCarrier interface {
	ErrorMessage() string
}

type invoker func(ctx context.Context, raw json.RawMessage) (any, error)

type operation struct {
	kind   Kind
	invoke invoker
}

// Dispatcher holds the registered operations. Registration happens at
// startup; Dispatch is safe for concurrent use.
type Dispatcher struct {
	mu  sync.RWMutex
	ops map[string]operation

	log      *logger.Logger
	observer Observer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger enables failure logging.
func WithLogger(l *logger.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithObserver reports outcomes to o.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{ops: make(map[string]operation)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle registers fn under name. Args are decoded into A with unknown fields
// rejected, then validated when A implements validation.Validatable.
// Registering the same name twice panics.
func Handle[A any, R any](d *Dispatcher, name string, kind Kind, fn func(ctx context.Context, args A) (R, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.ops[name]; dup {
		panic(fmt.Sprintf("dispatch: operation %q registered twice", name))
	}
	d.ops[name] = operation{
		kind: kind,
		invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args, err := decodeArgs[A](raw)
			if err != nil {
				return nil, err
			}
			return fn(ctx, args)
		},
	}
}

func decodeArgs[A any](raw json.RawMessage) (A, error) {
	var args A
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&args); err != nil {
			return args, fmt.Errorf("%w: %v", ErrMalformedArgs, err)
		}
	}
	if v, ok := any(args).(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			return args, fmt.Errorf("%w: %v", ErrMalformedArgs, err)
		}
	}
	return args, nil
}

// Operations returns the registered names with their kinds.
func (d *Dispatcher) Operations() map[string]Kind {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]Kind, len(d.ops))
	for name, op := range d.ops {
		out[name] = op.kind
	}
	return out
}

// Names returns the registered operation names in sorted order.
func (d *Dispatcher) Names() []string {
	ops := d.Operations()
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs one operation. A returned error is a schema problem
// (ErrUnknownOperation or ErrMalformedArgs) and no resolver ran.
// Resolver failures come back inside the Response.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Response, error) {
	d.mu.RLock()
	op, ok := d.ops[req.Operation]
	d.mu.RUnlock()
	if !ok {
		d.reject(req.Operation)
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownOperation, req.Operation)
	}

	start := time.Now()
	data, err := d.safeInvoke(ctx, req.Operation, op.invoke, req.Args)
	if errors.Is(err, ErrMalformedArgs) {
		d.reject(req.Operation)
		return Response{}, err
	}

	outcome := metrics.OutcomeOK
	resp := Response{Data: data}
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
		resp = Response{Errors: []FieldError{{Message: err.Error(), Path: []string{req.Operation}}}}
		d.logFailure(req.Operation, err.Error())
	default:
		if ec, ok := data.(ErrorCarrier); ok && ec.ErrorMessage() != "" {
			outcome = metrics.OutcomeError
			d.logFailure(req.Operation, ec.ErrorMessage())
		}
	}
	if d.observer != nil {
		d.observer.Observe(req.Operation, outcome, time.Since(start))
	}
	return resp, nil
}

var errInternal = errors.New("internal error")

func (d *Dispatcher) safeInvoke(ctx context.Context, name string, fn invoker, raw json.RawMessage) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if d.log != nil {
				d.log.Errorw("operation_panicked", "operation", name, "panic", r)
			}
			data, err = nil, errInternal
		}
	}()
	return fn(ctx, raw)
}

func (d *Dispatcher) reject(name string) {
	if d.observer != nil {
		d.observer.Reject(name)
	}
}

func (d *Dispatcher) logFailure(name, msg string) {
	if d.log != nil {
		d.log.Infow("operation_failed", "operation", name, "error", msg)
	}
}
