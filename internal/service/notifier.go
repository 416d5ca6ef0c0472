package service

import (
	"sync"
	"time"
)

// ToastTTL is how long a notification stays visible.
const ToastTTL = 3 * time.Second

// Toast is a transient notification shown above the console.
type Toast struct {
	Message string
	IsError bool
	Expires time.Time
}

// Notifier holds at most one toast. A new toast replaces the current one.
type Notifier struct {
	mu      sync.Mutex
	current *Toast
	ttl     time.Duration
	now     func() time.Time
}

func NewNotifier() *Notifier {
	return &Notifier{ttl: ToastTTL, now: time.Now}
}

func (n *Notifier) Success(msg string) { n.show(msg, false) }

func (n *Notifier) Error(msg string) { n.show(msg, true) }

func (n *Notifier) show(msg string, isError bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = &Toast{Message: msg, IsError: isError, Expires: n.now().Add(n.ttl)}
}

// Current returns the visible toast. Expired toasts are dropped.
func (n *Notifier) Current() (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Toast{}, false
	}
	if !n.now().Before(n.current.Expires) {
		n.current = nil
		return Toast{}, false
	}
	return *n.current, true
}
