package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gpdecorators/site/internal/repository"
)

// Tab identifies one console panel.
type Tab string

const (
	TabBookings     Tab = "bookings"
	TabContacts     Tab = "contacts"
	TabServices     Tab = "services"
	TabEvents       Tab = "events"
	TabTestimonials Tab = "testimonials"
)

// TabInfo is a tab and its label, in display order.
type TabInfo struct {
	Tab   Tab
	Label string
}

var Tabs = []TabInfo{
	{TabBookings, "Bookings"},
	{TabContacts, "Inquiries"},
	{TabServices, "Services"},
	{TabEvents, "Events"},
	{TabTestimonials, "Testimonials"},
}

// ParseTab maps a path or query value to a Tab.
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t.Tab) == s {
			return t.Tab, true
		}
	}
	return "", false
}

// ConsoleRepos are the backend collections the console edits.
type ConsoleRepos struct {
	Bookings     repository.BookingRepository
	Contacts     repository.ContactRepository
	Services     repository.ServiceRepository
	Events       repository.EventRepository
	Testimonials repository.TestimonialRepository
}

// Console is one admin's tabbed shell. Exactly one tab is active; opening
// a different tab mounts it, which resets and reloads its panel.
type Console struct {
	Notifier     *Notifier
	Bookings     *BookingsPanel
	Contacts     *ContactsPanel
	Services     *ServicesPanel
	Events       *EventsPanel
	Testimonials *TestimonialsPanel

	mu       sync.Mutex
	active   Tab
	mounted  bool
	lastSeen time.Time
}

func NewConsole(repos ConsoleRepos) *Console {
	n := NewNotifier()
	return &Console{
		Notifier:     n,
		Bookings:     NewBookingsPanel(repos.Bookings, n),
		Contacts:     NewContactsPanel(repos.Contacts, n),
		Services:     NewServicesPanel(repos.Services, n),
		Events:       NewEventsPanel(repos.Events, n),
		Testimonials: NewTestimonialsPanel(repos.Testimonials, n),
		active:       TabBookings,
	}
}

// Active returns the current tab.
func (c *Console) Active() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Open makes tab active. The panel is mounted on first open and whenever
// the admin arrives from a different tab; reopening the active tab keeps
// its local state. A load failure is reported on the panel, not returned
// as fatal.
func (c *Console) Open(ctx context.Context, tab Tab) error {
	c.mu.Lock()
	if c.mounted && c.active == tab {
		c.mu.Unlock()
		return nil
	}
	c.active = tab
	c.mounted = true
	c.mu.Unlock()

	slog.Debug("mounting console tab", "tab", tab)
	switch tab {
	case TabContacts:
		return c.Contacts.Mount(ctx)
	case TabServices:
		return c.Services.Mount(ctx)
	case TabEvents:
		return c.Events.Mount(ctx)
	case TabTestimonials:
		return c.Testimonials.Mount(ctx)
	default:
		return c.Bookings.Mount(ctx)
	}
}

// SetTestimonialView changes the review filter. When the testimonials tab
// is not the active one, the view is switched and the tab is mounted, so
// the list is fetched once.
func (c *Console) SetTestimonialView(ctx context.Context, v TestimonialView) error {
	c.mu.Lock()
	onTab := c.mounted && c.active == TabTestimonials
	c.mu.Unlock()
	if onTab {
		return c.Testimonials.SetView(ctx, v)
	}
	c.Testimonials.selectView(v)
	return c.Open(ctx, TabTestimonials)
}

func (c *Console) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Console) idleSince(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.lastSeen)
}

// ConsoleIdleTimeout is how long an unused console is kept.
const ConsoleIdleTimeout = 2 * time.Hour

// ConsoleStore keeps one Console per admin session.
type ConsoleStore struct {
	repos ConsoleRepos
	idle  time.Duration
	now   func() time.Time

	mu       sync.Mutex
	consoles map[string]*Console
}

func NewConsoleStore(repos ConsoleRepos) *ConsoleStore {
	return &ConsoleStore{
		repos:    repos,
		idle:     ConsoleIdleTimeout,
		now:      time.Now,
		consoles: make(map[string]*Console),
	}
}

// Get returns the console for a session, creating it on first use.
func (s *ConsoleStore) Get(sessionToken string) *Console {
	s.mu.Lock()
	c, ok := s.consoles[sessionToken]
	if !ok {
		c = NewConsole(s.repos)
		s.consoles[sessionToken] = c
	}
	s.mu.Unlock()
	c.touch(s.now())
	return c
}

// Drop forgets a session's console, e.g. on sign-out.
func (s *ConsoleStore) Drop(sessionToken string) {
	s.mu.Lock()
	delete(s.consoles, sessionToken)
	s.mu.Unlock()
}

// Len returns the number of live consoles.
func (s *ConsoleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.consoles)
}

// Sweep evicts consoles idle for longer than the idle timeout.
func (s *ConsoleStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for token, c := range s.consoles {
		if c.idleSince(now) > s.idle {
			delete(s.consoles, token)
			n++
		}
	}
	return n
}

// Run sweeps idle consoles every interval until ctx is done.
func (s *ConsoleStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("evicted idle consoles", "count", n)
			}
		}
	}
}
