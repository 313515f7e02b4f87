// Package events implements the event sink the map engine notifies on
// set, delete, expire, evict, and clear. Dispatch is synchronous and
// happens inline with the mutating operation, consistent with the
// engine's single-threaded, cooperative scheduling model: a handler
// that blocks blocks the caller.
package events

// Kind identifies which lifecycle event fired.
type Kind int

const (
	Set Kind = iota
	Delete
	Expire
	Evict
	Clear
)

func (k Kind) String() string {
	switch k {
	case Set:
		return "set"
	case Delete:
		return "delete"
	case Expire:
		return "expire"
	case Evict:
		return "evict"
	case Clear:
		return "clear"
	default:
		return "unknown"
	}
}

// Event carries the payload for a single notification. Key and Value are
// the decoded representations; Value is nil for kinds that don't carry
// one (Delete, Expire, Clear).
type Event struct {
	Kind  Kind
	Key   any
	Value any
}

// Handler receives a dispatched Event.
type Handler func(Event)

// Bus is a small synchronous pub/sub registry. Multiple handlers may
// subscribe to the same Kind; they run in subscription order. The zero
// Bus is ready to use.
type Bus struct {
	handlers map[Kind][]Handler
}

// NewBus returns a Bus ready for subscriptions.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers handler to run whenever an event of kind fires.
func (b *Bus) Subscribe(kind Kind, handler Handler) {
	if b.handlers == nil {
		b.handlers = make(map[Kind][]Handler)
	}
	b.handlers[kind] = append(b.handlers[kind], handler)
}

// OnSet subscribes to Set events.
func (b *Bus) OnSet(handler Handler) { b.Subscribe(Set, handler) }

// OnDelete subscribes to Delete events.
func (b *Bus) OnDelete(handler Handler) { b.Subscribe(Delete, handler) }

// OnExpire subscribes to Expire events.
func (b *Bus) OnExpire(handler Handler) { b.Subscribe(Expire, handler) }

// OnEvict subscribes to Evict events.
func (b *Bus) OnEvict(handler Handler) { b.Subscribe(Evict, handler) }

// OnClear subscribes to Clear events.
func (b *Bus) OnClear(handler Handler) { b.Subscribe(Clear, handler) }

// Emit dispatches an event synchronously to every subscriber of its
// kind, in subscription order. A nil Bus emits nothing, letting the
// engine treat "no event sink configured" as the zero value.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	for _, h := range b.handlers[e.Kind] {
		h(e)
	}
}
