// Package notifications delivers transient user-facing messages (toasts) from
// any component to whatever view renders them.
package notifications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
)

// DefaultTTL is how long a notification stays active before auto-dismissal.
const DefaultTTL = 5 * time.Second

type Notification struct {
	ID        uuid.UUID              `json:"id"`
	Kind      enums.NotificationKind `json:"kind"`
	Title     string                 `json:"title"`
	Detail    string                 `json:"detail,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Notifier is what producers depend on.
type Notifier interface {
	Notify(ctx context.Context, kind enums.NotificationKind, title, detail string) Notification
}

// Bus keeps the active notifications and fans each new one out to subscribers.
type Bus struct {
	mu          sync.Mutex
	active      map[uuid.UUID]Notification
	timers      map[uuid.UUID]*time.Timer
	subscribers map[int]func(Notification)
	nextSub     int
	ttl         time.Duration
	now         func() time.Time
	logg        *logger.Logger
}

// NewBus builds a bus. A ttl of zero keeps notifications until dismissed.
func NewBus(ttl time.Duration, logg *logger.Logger) *Bus {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Bus{
		active:      make(map[uuid.UUID]Notification),
		timers:      make(map[uuid.UUID]*time.Timer),
		subscribers: make(map[int]func(Notification)),
		ttl:         ttl,
		now:         time.Now,
		logg:        logg,
	}
}

func (b *Bus) Notify(ctx context.Context, kind enums.NotificationKind, title, detail string) Notification {
	if !kind.IsValid() {
		kind = enums.NotificationKindInfo
	}
	n := Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     title,
		Detail:    detail,
		CreatedAt: b.now(),
	}

	b.mu.Lock()
	b.active[n.ID] = n
	if b.ttl > 0 {
		id := n.ID
		b.timers[id] = time.AfterFunc(b.ttl, func() { b.Dismiss(id) })
	}
	subs := make([]func(Notification), 0, len(b.subscribers))
	for i := 0; i < b.nextSub; i++ {
		if fn, ok := b.subscribers[i]; ok {
			subs = append(subs, fn)
		}
	}
	b.mu.Unlock()

	b.logg.Debug(b.logg.WithFields(ctx, map[string]any{"kind": kind.String(), "title": title}), "notification raised")
	for _, fn := range subs {
		fn(n)
	}
	return n
}

// Subscribe registers fn for every future notification.
func (b *Bus) Subscribe(fn func(Notification)) func() {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subscribers[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

// Active lists undismissed notifications, oldest first.
func (b *Bus) Active() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Notification, 0, len(b.active))
	for _, n := range b.active {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Dismiss removes a notification. It reports whether it was still active.
func (b *Bus) Dismiss(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if timer, ok := b.timers[id]; ok {
		timer.Stop()
		delete(b.timers, id)
	}
	if _, ok := b.active[id]; !ok {
		return false
	}
	delete(b.active, id)
	return true
}

// Close stops pending auto-dismiss timers.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, timer := range b.timers {
		timer.Stop()
		delete(b.timers, id)
	}
}
