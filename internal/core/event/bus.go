package event

import (
	"reflect"
	"sync"
)

// Bus carries two kinds of traffic:
//
//   - Intents are published with Publish and delivered synchronously, before
//     the host commits the change. Handlers receive a pointer and may cancel
//     or rewrite the proposed outcome.
//   - Notifications are queued with Emit into a double buffer. Events emitted
//     in tick N are delivered in tick N+1 after SwapBuffers.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

// Cancellable is implemented by intents whose outcome handlers may veto.
type Cancellable interface {
	Cancelled() bool
}

// Subscribe registers a typed handler for events of type T.
// Intents are subscribed as pointer types, e.g. Subscribe[*FluidFlow].
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeKey[T]()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Publish delivers an intent to every handler in registration order and
// reports whether it is still allowed afterwards. Delivery stops at the
// first handler that cancels it.
func Publish[T any](b *Bus, event T) bool {
	for _, h := range b.handlers[typeKey[T]()] {
		h.(func(T))(event)
		if c, ok := any(event).(Cancellable); ok && c.Cancelled() {
			return false
		}
	}
	return true
}

// Emit queues a notification into the back buffer (readable next tick).
func Emit[T any](b *Bus, event T) {
	t := typeKey[T]()
	b.back[t] = append(b.back[t], event)
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at tick start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers all front-buffer notifications to their handlers.
func (b *Bus) DispatchAll() {
	for t, events := range b.front {
		handlers := b.handlers[t]
		for _, ev := range events {
			for _, h := range handlers {
				callHandler(h, ev)
			}
		}
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
