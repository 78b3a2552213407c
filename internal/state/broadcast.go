package state

import "sync"

const defaultSubscriberBuffer = 16

// Broadcaster fans events out to subscriber channels. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type Broadcaster[E any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan E
	buffer int
}

// NewBroadcaster builds a Broadcaster whose subscriber channels hold buffer
// events. A non-positive buffer uses the default.
func NewBroadcaster[E any](buffer int) *Broadcaster[E] {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Broadcaster[E]{
		subs:   make(map[uint64]chan E),
		buffer: buffer,
	}
}

// Subscribe returns a receive channel and a cancel function. Cancel closes
// the channel and is safe to call more than once.
func (b *Broadcaster[E]) Subscribe() (<-chan E, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	ch := make(chan E, b.buffer)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Publish delivers e to every subscriber and returns how many missed it.
func (b *Broadcaster[E]) Publish(e E) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	dropped := 0
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			dropped++
		}
	}
	return dropped
}

// Subscribers returns the current subscriber count.
func (b *Broadcaster[E]) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
