package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted during tick N land in
// the back buffer and become readable in tick N+1, after SwapBuffers rotates
// the buffers at tick start. The buffer is a single ordered slice, so
// dispatch preserves emission order across event types; the edit journal
// depends on that. Emission and dispatch stay on the tick goroutine; only
// handler registration is locked, since subscriptions happen during startup
// wiring.
type Bus struct {
	mu       sync.Mutex // protects handler registration only
	front    []any
	back     []any
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]any, 0, 64),
		back:     make([]any, 0, 64),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer, readable next tick.
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// SwapBuffers rotates back to front and truncates the new back buffer.
// Called once at tick start, before DispatchAll.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers every front-buffer event to its subscribed handlers
// in emission order.
func (b *Bus) DispatchAll() {
	for _, ev := range b.front {
		// Emit stores concrete event values, so the dynamic type matches
		// the reflect.Type the handlers subscribed under.
		for _, h := range b.handlers[reflect.TypeOf(ev)] {
			callHandler(h, ev)
		}
	}
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
