package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoArgs struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func (a echoArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
	)
}

type result struct {
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

func (r result) ErrorMessage() string { return r.Error }

type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string]string
	rejected []string
}

func (o *recordingObserver) Observe(op, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = map[string]string{}
	}
	o.outcomes[op] = outcome
}

func (o *recordingObserver) Reject(op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected = append(o.rejected, op)
}

func newTestDispatcher(obs Observer) *Dispatcher {
	d := New(WithObserver(obs))
	Handle(d, "ping", KindQuery, func(ctx context.Context, _ struct{}) (string, error) {
		return "pong", nil
	})
	Handle(d, "echo", KindMutation, func(ctx context.Context, a echoArgs) (result, error) {
		if a.ID == "bad" {
			return result{Error: "nope"}, nil
		}
		return result{Value: a.ID}, nil
	})
	Handle(d, "list", KindQuery, func(ctx context.Context, _ struct{}) ([]string, error) {
		return nil, errors.New("store down")
	})
	Handle(d, "boom", KindQuery, func(ctx context.Context, _ struct{}) (string, error) {
		panic("kaboom")
	})
	return d
}

func TestDispatch_Ping(t *testing.T) {
	obs := &recordingObserver{}
	d := newTestDispatcher(obs)

	resp, err := d.Dispatch(context.Background(), Request{Operation: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Data)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "ok", obs.outcomes["ping"])
}

func TestDispatch_DecodesAndValidates(t *testing.T) {
	obs := &recordingObserver{}
	d := newTestDispatcher(obs)

	resp, err := d.Dispatch(context.Background(), Request{
		Operation: "echo",
		Args:      json.RawMessage(`{"id":"abc","count":2}`),
	})
	require.NoError(t, err)
	assert.Equal(t, result{Value: "abc"}, resp.Data)

	cases := map[string]string{
		"missing required": `{"count":1}`,
		"unknown field":    `{"id":"x","extra":true}`,
		"type mismatch":    `{"id":5}`,
		"not json":         `{"id":`,
		"absent args":      ``,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := d.Dispatch(context.Background(), Request{Operation: "echo", Args: json.RawMessage(raw)})
			require.ErrorIs(t, err, ErrMalformedArgs)
		})
	}
	assert.Len(t, obs.rejected, len(cases))
}

func TestDispatch_ErrorShapedResult(t *testing.T) {
	obs := &recordingObserver{}
	d := newTestDispatcher(obs)

	resp, err := d.Dispatch(context.Background(), Request{Operation: "echo", Args: json.RawMessage(`{"id":"bad"}`)})
	require.NoError(t, err)
	assert.Equal(t, result{Error: "nope"}, resp.Data)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "error", obs.outcomes["echo"])
}

func TestDispatch_FieldError(t *testing.T) {
	obs := &recordingObserver{}
	d := newTestDispatcher(obs)

	resp, err := d.Dispatch(context.Background(), Request{Operation: "list"})
	require.NoError(t, err)
	assert.Nil(t, resp.Data)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, FieldError{Message: "store down", Path: []string{"list"}}, resp.Errors[0])
	assert.Equal(t, "error", obs.outcomes["list"])

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":null,"errors":[{"message":"store down","path":["list"]}]}`, string(body))
}

func TestDispatch_RecoversPanic(t *testing.T) {
	d := newTestDispatcher(nil)

	resp, err := d.Dispatch(context.Background(), Request{Operation: "boom"})
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "internal error", resp.Errors[0].Message)
}

func TestDispatch_UnknownOperation(t *testing.T) {
	obs := &recordingObserver{}
	d := newTestDispatcher(obs)

	_, err := d.Dispatch(context.Background(), Request{Operation: "dropTables"})
	require.ErrorIs(t, err, ErrUnknownOperation)
	assert.Equal(t, []string{"dropTables"}, obs.rejected)
}

func TestHandle_DuplicatePanics(t *testing.T) {
	d := newTestDispatcher(nil)
	assert.Panics(t, func() {
		Handle(d, "ping", KindQuery, func(ctx context.Context, _ struct{}) (string, error) { return "", nil })
	})
}

func TestNames(t *testing.T) {
	d := newTestDispatcher(nil)
	assert.Equal(t, []string{"boom", "echo", "list", "ping"}, d.Names())
	assert.Equal(t, KindMutation, d.Operations()["echo"])
}
