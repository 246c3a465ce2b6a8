package lifecycle

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Component interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Funcs adapts a pair of functions to Component. Nil functions are no-ops.
type Funcs struct {
	OnStart func(ctx context.Context) error
	OnStop  func(ctx context.Context) error
}

func (f Funcs) Start(ctx context.Context) error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart(ctx)
}

func (f Funcs) Stop(ctx context.Context) error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop(ctx)
}

type named struct {
	name      string
	component Component
}

// Runtime starts components in registration order and stops them in reverse.
type Runtime struct {
	components []named
	started    []named
}

func NewRuntime() *Runtime {
	return &Runtime{}
}

func (r *Runtime) Register(name string, component Component) {
	if component == nil {
		return
	}
	r.components = append(r.components, named{name: name, component: component})
}

// Start stops whatever already started when a component fails.
func (r *Runtime) Start(ctx context.Context) error {
	r.started = make([]named, 0, len(r.components))
	for _, c := range r.components {
		if err := c.component.Start(ctx); err != nil {
			_ = stopComponents(ctx, r.started)
			r.started = nil
			return errors.Wrapf(err, "start %s", c.name)
		}
		log.WithField("component", c.name).Debug("started")
		r.started = append(r.started, c)
	}
	return nil
}

func (r *Runtime) Stop(ctx context.Context) error {
	err := stopComponents(ctx, r.started)
	r.started = nil
	return err
}

func stopComponents(ctx context.Context, components []named) error {
	var stopErr error
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		if err := c.component.Stop(ctx); err != nil {
			log.WithField("component", c.name).WithError(err).Warn("stop failed")
			stopErr = stderrors.Join(stopErr, errors.Wrapf(err, "stop %s", c.name))
			continue
		}
		log.WithField("component", c.name).Debug("stopped")
	}
	return stopErr
}
