// Package flash holds the single transient notification of a browser session.
package flash

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notification stays up before clearing itself
const DefaultTTL = 3 * time.Second

// Notification is a banner message
type Notification struct {
	Text      string    `json:"text"`
	IsError   bool      `json:"isError"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Channel holds at most one notification. Show replaces whatever is current and
// restarts the auto-clear timer.
type Channel struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notification
	timer   *time.Timer
	gen     uint64
	closed  bool
	done    chan struct{}

	nextSub int
	subs    map[int]func(Notification, bool)
}

// New creates a channel whose notifications clear after ttl (DefaultTTL when ttl <= 0)
func New(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel{
		ttl:  ttl,
		done: make(chan struct{}),
		subs: make(map[int]func(Notification, bool)),
	}
}

// Show replaces the current notification
func (c *Channel) Show(text string, isError bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	n := Notification{Text: text, IsError: isError, ExpiresAt: time.Now().Add(c.ttl)}
	c.current = &n
	c.timer = time.AfterFunc(c.ttl, func() { c.expire(gen) })
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, n, true)
}

// Clear removes the current notification immediately
func (c *Channel) Clear() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	hadMessage := c.current != nil
	c.current = nil
	subs := c.snapshotSubs()
	c.mu.Unlock()

	if hadMessage {
		notify(subs, Notification{}, false)
	}
}

// expire clears the notification shown under gen. A timer that fires after a
// newer Show or Clear finds a different generation and does nothing.
func (c *Channel) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.timer = nil
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, Notification{}, false)
}

// Current returns the active notification
func (c *Channel) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Subscribe registers fn for every change; fn receives the new notification and
// whether one is showing. Callbacks run outside the channel lock and must not block.
func (c *Channel) Subscribe(fn func(n Notification, ok bool)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Done is closed once the channel is closed, e.g. when its session is evicted
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close stops the pending timer and drops all subscribers
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.done)
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.current = nil
	c.closed = true
	clear(c.subs)
}

func (c *Channel) snapshotSubs() []func(Notification, bool) {
	if len(c.subs) == 0 {
		return nil
	}
	out := make([]func(Notification, bool), 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(Notification, bool), n Notification, ok bool) {
	for _, fn := range subs {
		fn(n, ok)
	}
}
