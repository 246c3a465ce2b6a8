package lifecycle

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type testComponent struct {
	name      string
	startErr  error
	stopErr   error
	events    *[]string
	startCall int
	stopCall  int
}

func (c *testComponent) Start(context.Context) error {
	c.startCall++
	if c.events != nil {
		*c.events = append(*c.events, "start:"+c.name)
	}
	return c.startErr
}

func (c *testComponent) Stop(context.Context) error {
	c.stopCall++
	if c.events != nil {
		*c.events = append(*c.events, "stop:"+c.name)
	}
	return c.stopErr
}

func newRuntime(components ...*testComponent) *Runtime {
	r := NewRuntime()
	for _, c := range components {
		r.Register(c.name, c)
	}
	return r
}

func TestRuntimeStartStopOrder(t *testing.T) {
	t.Parallel()

	events := make([]string, 0, 6)
	runtime := newRuntime(
		&testComponent{name: "store", events: &events},
		&testComponent{name: "metrics", events: &events},
		&testComponent{name: "updates", events: &events},
	)
	if err := runtime.Start(context.Background()); err != nil {
		t.Fatalf("start runtime: %v", err)
	}
	if err := runtime.Stop(context.Background()); err != nil {
		t.Fatalf("stop runtime: %v", err)
	}

	expected := []string{
		"start:store",
		"start:metrics",
		"start:updates",
		"stop:updates",
		"stop:metrics",
		"stop:store",
	}
	if !reflect.DeepEqual(events, expected) {
		t.Fatalf("unexpected order: got %v want %v", events, expected)
	}
}

func TestRuntimeStartFailureStopsStartedComponents(t *testing.T) {
	t.Parallel()

	events := make([]string, 0, 4)
	startErr := errors.New("address already in use")
	c1 := &testComponent{name: "store", events: &events}
	c2 := &testComponent{name: "metrics", events: &events, startErr: startErr}
	c3 := &testComponent{name: "updates", events: &events}

	runtime := newRuntime(c1, c2, c3)
	err := runtime.Start(context.Background())
	if !errors.Is(err, startErr) {
		t.Fatalf("unexpected start error: %v", err)
	}
	if !strings.Contains(err.Error(), "start metrics") {
		t.Fatalf("error should name the component: %v", err)
	}
	if c1.stopCall != 1 || c2.stopCall != 0 || c3.stopCall != 0 {
		t.Fatalf("unexpected stop calls: %d %d %d", c1.stopCall, c2.stopCall, c3.stopCall)
	}
	if err := runtime.Stop(context.Background()); err != nil || c1.stopCall != 1 {
		t.Fatalf("failed start must leave nothing to stop: %v, %d", err, c1.stopCall)
	}
}

func TestRuntimeStopJoinsErrors(t *testing.T) {
	t.Parallel()

	errA := errors.New("a")
	errB := errors.New("b")
	runtime := newRuntime(
		&testComponent{name: "one", stopErr: errA},
		&testComponent{name: "two", stopErr: errB},
	)
	if err := runtime.Start(context.Background()); err != nil {
		t.Fatalf("start runtime: %v", err)
	}
	err := runtime.Stop(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both stop errors, got %v", err)
	}
}

func TestFuncs(t *testing.T) {
	t.Parallel()

	var calls []string
	runtime := NewRuntime()
	runtime.Register("funcs", Funcs{
		OnStart: func(context.Context) error { calls = append(calls, "start"); return nil },
	})
	runtime.Register("empty", Funcs{})
	if err := runtime.Start(context.Background()); err != nil {
		t.Fatalf("start runtime: %v", err)
	}
	if err := runtime.Stop(context.Background()); err != nil {
		t.Fatalf("stop runtime: %v", err)
	}
	if !reflect.DeepEqual(calls, []string{"start"}) {
		t.Fatalf("unexpected calls %v", calls)
	}
}
