package route

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrNavigationUnsupported is returned by Go when the location cannot be written.
var ErrNavigationUnsupported = errors.New("route: location does not support navigation")

// Resolver derives states from a Location. It reacts to change signals and
// never writes history itself.
type Resolver struct {
	location Location
	logger   interfaces.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logging.Or(logger)
	}
}

// NewResolver binds a resolver to location.
func NewResolver(location Location, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		location: location,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Current parses the location's fragment.
func (r *Resolver) Current() State {
	return Parse(r.location.Fragment())
}

// Watch emits a freshly parsed state after every location change. The
// channel closes when ctx is done.
func (r *Resolver) Watch(ctx context.Context) (<-chan State, error) {
	changes, err := r.location.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan State)
	go func() {
		defer close(out)
		for range changes {
			state := r.Current()
			r.logger.Debug("route.changed", "view", state.View, "param", state.Param())
			select {
			case out <- state:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Go pushes the fragment for view and param. The resulting state arrives
// through Watch like any other change.
func (r *Resolver) Go(view View, param string) error {
	nav, ok := r.location.(Navigator)
	if !ok {
		return ErrNavigationUnsupported
	}
	nav.Push(FormatView(view, param))
	return nil
}
