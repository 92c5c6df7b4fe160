package registry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
)

// Identity is the registry key of one subscription.
type Identity struct {
	Kind sdk.EventKind
	Key  uint64
}

// String formats the identity for diagnostics.
func (id Identity) String() string {
	return fmt.Sprintf("%s#%x", id.Kind, id.Key)
}

// Handle is an opaque token for a registered subscription. Zero is never
// issued.
type Handle uint64

// SubscribeFunc connects deliver to an SDK event stream.
type SubscribeFunc func(deliver func(sdk.Event)) (sdk.Subscription, error)

// Handler consumes one event. live reports whether the subscription is
// still registered; a handler that does work before reaching the caller's
// code checks it again right before that call.
type Handler func(ev sdk.Event, live func() bool)

type entry struct {
	id      Identity
	handle  Handle
	handler Handler
	sub     sdk.Subscription
	closed  atomic.Bool
}

func (e *entry) live() bool {
	return !e.closed.Load()
}

func (e *entry) deliver(ev sdk.Event) {
	if !e.live() {
		return
	}
	e.handler(ev, e.live)
}

// Registry maps identities to live subscriptions. The zero value is not
// usable; create one with New.
type Registry struct {
	mu      sync.Mutex
	entries map[Identity]*entry
	handles map[Handle]*entry
	nextID  Handle
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[Identity]*entry),
		handles: make(map[Handle]*entry),
		nextID:  1,
	}
}

// Add subscribes handler through subscribe and stores the subscription under
// id. It fails with a duplicate error if id is already registered.
//
// handler runs on the SDK dispatch goroutine.
func (r *Registry) Add(id Identity, subscribe SubscribeFunc, handler Handler) (Handle, error) {
	if handler == nil {
		return 0, status.NilPointer("handler")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return 0, status.New(status.KindDuplicate).
			Op("add_handler").
			Value(id).
			Detail("%s is already registered", id).
			Build()
	}

	e := &entry{id: id, handler: handler}
	sub, err := subscribe(e.deliver)
	if err != nil {
		return 0, fmt.Errorf("subscribe %s: %w", id, err)
	}
	e.sub = sub
	e.handle = r.nextID
	r.nextID++

	r.entries[id] = e
	r.handles[e.handle] = e

	logrus.WithFields(logrus.Fields{
		"function": "Add",
		"identity": id.String(),
		"handle":   e.handle,
	}).Debug("Registered event handler")

	return e.handle, nil
}

// Remove disconnects and erases the subscription stored under id. It fails
// with a not-found error if id is absent or already being removed.
//
// Remove may be called from inside the handler being removed.
func (r *Registry) Remove(id Identity) error {
	r.mu.Lock()
	e, exists := r.entries[id]
	if !exists || !e.closed.CompareAndSwap(false, true) {
		r.mu.Unlock()
		return notFound(id)
	}
	r.mu.Unlock()

	return r.disconnect(e)
}

// RemoveHandle removes the subscription issued handle h.
func (r *Registry) RemoveHandle(h Handle) error {
	r.mu.Lock()
	e, exists := r.handles[h]
	if !exists || !e.closed.CompareAndSwap(false, true) {
		r.mu.Unlock()
		return status.New(status.KindNotFound).
			Op("remove_handler").
			Value(h).
			Detail("handle %d is not registered", h).
			Build()
	}
	r.mu.Unlock()

	return r.disconnect(e)
}

// disconnect waits for the SDK to release e, then erases it. e must already
// be closed.
func (r *Registry) disconnect(e *entry) error {
	_, err := e.sub.Disconnect().Wait()

	r.mu.Lock()
	delete(r.entries, e.id)
	delete(r.handles, e.handle)
	r.mu.Unlock()

	fields := logrus.Fields{
		"function": "disconnect",
		"identity": e.id.String(),
		"handle":   e.handle,
	}
	if err != nil {
		fields["error"] = err.Error()
		logrus.WithFields(fields).Warn("Event handler disconnect failed")
		return fmt.Errorf("disconnect %s: %w", e.id, err)
	}
	logrus.WithFields(fields).Debug("Removed event handler")
	return nil
}

// TeardownAll closes every subscription, waits for all of them to disconnect
// and empties the registry. Disconnects run concurrently. The first
// disconnect error is returned after every entry has been erased.
func (r *Registry) TeardownAll() error {
	r.mu.Lock()
	pending := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.closed.CompareAndSwap(false, true) {
			pending = append(pending, e)
		}
	}
	r.mu.Unlock()

	var g errgroup.Group
	for _, e := range pending {
		g.Go(func() error {
			return r.disconnect(e)
		})
	}
	err := g.Wait()

	logrus.WithFields(logrus.Fields{
		"function": "TeardownAll",
		"count":    len(pending),
	}).Debug("Registry torn down")

	return err
}

// Len returns the number of registered subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id Identity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	return ok
}

// Identities returns the registered identities ordered by kind then key.
func (r *Registry) Identities() []Identity {
	r.mu.Lock()
	ids := make([]Identity, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Kind != ids[j].Kind {
			return ids[i].Kind < ids[j].Kind
		}
		return ids[i].Key < ids[j].Key
	})
	return ids
}

func notFound(id Identity) error {
	return status.New(status.KindNotFound).
		Op("remove_handler").
		Value(id).
		Detail("%s is not registered", id).
		Build()
}
