package interaction

import "sync"

// Subscription is a handle over listener registrations made for the duration
// of a gesture. Disposing it detaches the listeners; disposal is idempotent
// and safe to call from a deferred path and an explicit path both.
type Subscription struct {
	once    sync.Once
	dispose func()
}

// NewSubscription wraps a detach function. A nil detach yields a subscription
// whose Dispose is a no-op.
func NewSubscription(detach func()) *Subscription {
	return &Subscription{dispose: detach}
}

// Dispose detaches the underlying listeners. Subsequent calls do nothing.
func (s *Subscription) Dispose() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.dispose != nil {
			s.dispose()
		}
	})
}
