// Package state provides the event fan-out shared by the stores.
//
// Broadcaster delivers each published event to every current subscriber
// over its own buffered channel. Publish never blocks: a subscriber whose
// buffer is full misses that event and Publish reports how many were
// dropped so the caller can log it. Cancelling a subscription closes its
// channel, and cancelling twice is safe.
//
//	events, cancel := b.Subscribe()
//	defer cancel()
//	for e := range events {
//		...
//	}
package state
