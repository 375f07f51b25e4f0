package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/controller"
)

// NotificationMsg carries a controller notification into the Bubble Tea loop
type NotificationMsg struct {
	controller.Notification
}

// Sender is the part of *tea.Program the bridge needs
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge relays controller notifications to a running program. The
// controller notifies with its lock held while Program.Send blocks until the
// event loop reads, so notifications are queued and forwarded from a separate
// goroutine.
type Bridge struct {
	mu      sync.Mutex
	queue   []controller.Notification
	wake    chan struct{}
	done    chan struct{}
	stopped sync.Once
}

// NewBridge creates an idle bridge. Notifications queue until Run starts.
func NewBridge() *Bridge {
	return &Bridge{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Notify implements controller.Listener
func (b *Bridge) Notify(n controller.Notification) {
	b.mu.Lock()
	b.queue = append(b.queue, n)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Run forwards notifications to s in order until Close
func (b *Bridge) Run(s Sender) {
	for {
		b.mu.Lock()
		batch := b.queue
		b.queue = nil
		b.mu.Unlock()

		for _, n := range batch {
			s.Send(NotificationMsg{n})
		}

		select {
		case <-b.wake:
		case <-b.done:
			return
		}
	}
}

// Close stops Run
func (b *Bridge) Close() {
	b.stopped.Do(func() { close(b.done) })
}
