package treemovie

// Observable state for the host UI. Subscribers get the new value whenever it
// changes; a CallbackHandle removes the subscription. The core is
// single-threaded, so notification happens inline at the mutation site.

// CallbackHandle removes a registered callback when no longer needed.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters the callback. Safe to call more than once.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove()
		h.remove = nil
	}
}

// Observable holds a value and notifies subscribers on change.
type Observable[T comparable] struct {
	value  T
	subs   map[uint32]func(T)
	nextID uint32
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	return o.value
}

// Subscribe registers a callback invoked with each new value.
func (o *Observable[T]) Subscribe(fn func(T)) CallbackHandle {
	if o.subs == nil {
		o.subs = make(map[uint32]func(T))
	}
	o.nextID++
	id := o.nextID
	o.subs[id] = fn
	return CallbackHandle{remove: func() { delete(o.subs, id) }}
}

// set stores a new value and notifies subscribers if it changed.
func (o *Observable[T]) set(v T) {
	if v == o.value {
		return
	}
	o.value = v
	for _, fn := range o.subs {
		fn(v)
	}
}
