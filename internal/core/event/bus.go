package event

import (
	"reflect"
	"sync"
)

type envelope struct {
	t  reflect.Type
	ev any
}

// Bus is a double-buffered event bus. Events emitted in tick N are readable
// in tick N+1. SwapBuffers() is called at tick start by EventDispatchSystem.
// Events are delivered in emission order across all types, so a disable
// emitted before a scene unload is applied before it.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    []envelope
	back     []envelope
	handlers map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]envelope, 0, 64),
		back:     make([]envelope, 0, 64),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event into the back buffer (will be readable next tick).
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, envelope{t: typeKey[T](), ev: event})
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeKey[T]()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at tick start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// Pending returns the number of events waiting in the back buffer.
func (b *Bus) Pending() int { return len(b.back) }

// DispatchAll delivers all front-buffer events to their subscribed handlers.
// Handlers may Emit; those events land in the back buffer for the next tick.
func (b *Bus) DispatchAll() {
	for _, env := range b.front {
		for _, h := range b.handlers[env.t] {
			h(env.ev)
		}
	}
	b.front = b.front[:0]
}
