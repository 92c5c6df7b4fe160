package commsbridge

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/call"
	"github.com/opd-ai/commsbridge/config"
	"github.com/opd-ai/commsbridge/registry"
	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
	"github.com/opd-ai/commsbridge/translate"
)

// RefreshFunc returns a new access token when the SDK asks for one.
type RefreshFunc func() string

// Option configures a Bridge.
type Option func(*Bridge)

// WithAllocator sets the allocator used for every record handed out by the
// bridge. The default is a Go heap allocator.
func WithAllocator(alloc abi.Allocator) Option {
	return func(b *Bridge) {
		b.alloc = alloc
	}
}

// WithTracerProvider sets the provider for call spans. The default is the
// global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(b *Bridge) {
		b.tp = tp
	}
}

// Bridge owns one SDK instance and every event subscription made through it.
//
// Operations hold a read lock for their whole duration. Initialize and
// Release take the write lock, so Release never destroys an instance that an
// operation is still using. Event callbacks run on the SDK dispatch goroutine
// and must not call Initialize or Release.
type Bridge struct {
	mu       sync.RWMutex
	factory  sdk.Factory
	instance sdk.SDK
	handlers *registry.Registry

	last    call.LastError
	adapter *call.Adapter
	alloc   abi.Allocator
	tp      trace.TracerProvider
}

// New creates an uninitialized bridge that builds SDK instances with factory.
func New(factory sdk.Factory, opts ...Option) *Bridge {
	b := &Bridge{
		factory:  factory,
		handlers: registry.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.alloc == nil {
		b.alloc = abi.NewHeapAllocator()
	}
	b.adapter = call.NewAdapter(&b.last, b.tp)
	return b
}

// Initialize creates the SDK instance for token. refresh is invoked whenever
// the SDK needs a new token; it may be nil.
func (b *Bridge) Initialize(token string, refresh RefreshFunc) status.Code {
	return b.adapter.Do(context.Background(), "initialize", func() error {
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.instance != nil {
			return status.New(status.KindAlreadyInitialized).
				Detail("release the current instance first").
				Build()
		}
		if b.factory == nil {
			return status.New(status.KindInternal).Detail("no sdk factory").Build()
		}

		inst, err := b.factory(token, refreshHook(refresh))
		if err != nil {
			return err
		}
		if inst == nil {
			return status.New(status.KindInternal).Detail("sdk factory returned no instance").Build()
		}
		b.instance = inst

		logrus.WithFields(logrus.Fields{
			"function": "Initialize",
			"refresh":  refresh != nil,
		}).Info("SDK instance created")
		return nil
	})
}

func refreshHook(refresh RefreshFunc) sdk.RefreshHook {
	if refresh == nil {
		return nil
	}
	return func(feed sdk.RefreshToken) {
		feed(refresh())
	}
}

// Release disconnects every event handler, then destroys the SDK instance.
// Releasing an uninitialized bridge succeeds and does nothing.
func (b *Bridge) Release() status.Code {
	return b.adapter.Do(context.Background(), "release", func() error {
		inst, err := b.detach()
		if inst == nil {
			return err
		}
		closeErr := inst.Close()

		logrus.WithFields(logrus.Fields{
			"function": "Release",
		}).Info("SDK instance destroyed")
		return errors.Join(err, closeErr)
	})
}

// detach drains the registry and takes the instance out of the bridge. The
// instance is closed by the caller outside the lock so that pending event
// deliveries can finish.
func (b *Bridge) detach() (sdk.SDK, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.instance == nil {
		return nil, nil
	}
	err := b.handlers.TeardownAll()
	inst := b.instance
	b.instance = nil
	return inst, err
}

// IsInitialized reports whether an SDK instance is alive.
func (b *Bridge) IsInitialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.instance != nil
}

// LastError returns the diagnostic of the most recent failed call, or "".
func (b *Bridge) LastError() string {
	return b.last.Get()
}

// SetLogLevel changes bridge logging and, when initialized, the SDK log level.
func (b *Bridge) SetLogLevel(level int32) status.Code {
	return b.adapter.Do(context.Background(), "set_log_level", func() error {
		lvl, err := translate.LogLevels.Internal(level, "level")
		if err != nil {
			return err
		}
		logrus.SetLevel(config.LogrusLevel(lvl))

		b.mu.RLock()
		defer b.mu.RUnlock()
		if b.instance == nil {
			return nil
		}
		return b.instance.SetLogLevel(lvl)
	})
}

// do runs work against the live instance under the read lock.
func (b *Bridge) do(op string, work func(inst sdk.SDK) error) status.Code {
	return b.adapter.Do(context.Background(), op, func() error {
		b.mu.RLock()
		defer b.mu.RUnlock()

		if b.instance == nil {
			return errNotInitialized
		}
		return work(b.instance)
	})
}

var errNotInitialized = status.New(status.KindNotInitialized).
	Detail("call Initialize first").
	Build()

// exportWith builds a value in a fresh arena and stores it in dst only when
// every allocation succeeded.
func exportWith[R any](alloc abi.Allocator, dst *R, build func(a *abi.Arena) (R, error)) error {
	if dst == nil {
		return status.NilPointer("result")
	}
	a := abi.NewArena(alloc)
	v, err := build(a)
	if err != nil {
		a.Rollback()
		return err
	}
	a.Commit()
	*dst = v
	return nil
}

// requireRecord rejects a nil output record before the SDK is called.
func requireRecord[R any](r *R, name string) error {
	if r == nil {
		return status.NilPointer(name)
	}
	return nil
}
