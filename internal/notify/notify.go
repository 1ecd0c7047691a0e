// Package notify renders transient toast-style notices on a terminal
// stream and tracks which ones are still live.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// DefaultDuration is how long a notice stays live unless dismissed.
const DefaultDuration = 5 * time.Second

var kindStyles = map[Kind]lipgloss.Style{
	KindSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	KindError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	KindWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	KindInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
}

var kindMarks = map[Kind]string{
	KindSuccess: "✓",
	KindError:   "✗",
	KindWarning: "!",
	KindInfo:    "·",
}

// Channel writes notices to a stream as they appear and expires them
// after their duration. Expiry and manual dismissal race safely: each
// notice leaves the live set exactly once.
type Channel struct {
	mu      sync.Mutex
	out     io.Writer
	notices []*Notice
}

func New(out io.Writer) *Channel {
	return &Channel{out: out}
}

type Notice struct {
	channel *Channel
	message string
	kind    Kind
	timer   *time.Timer
	settle  sync.Once
}

func (n *Notice) Message() string { return n.message }
func (n *Notice) Kind() Kind      { return n.kind }

// Show emits a notice and schedules its expiry. A non-positive duration
// falls back to DefaultDuration.
func (c *Channel) Show(message string, kind Kind, duration time.Duration) *Notice {
	if duration <= 0 {
		duration = DefaultDuration
	}
	n := &Notice{channel: c, message: message, kind: kind}

	c.mu.Lock()
	c.notices = append(c.notices, n)
	if c.out != nil {
		style, ok := kindStyles[kind]
		if !ok {
			style = kindStyles[KindInfo]
		}
		fmt.Fprintln(c.out, style.Render(kindMarks[kind]+" "+message))
	}
	c.mu.Unlock()

	n.timer = time.AfterFunc(duration, n.expire)
	return n
}

// Dismiss retires the notice early and cancels the pending expiry. It
// is safe to call more than once and after expiry.
func (n *Notice) Dismiss() {
	if n.timer != nil {
		n.timer.Stop()
	}
	n.settle.Do(func() { n.channel.remove(n) })
}

func (n *Notice) expire() {
	n.settle.Do(func() { n.channel.remove(n) })
}

func (c *Channel) remove(n *Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, other := range c.notices {
		if other == n {
			c.notices = append(c.notices[:i], c.notices[i+1:]...)
			return
		}
	}
}

// Active lists the live notice messages in display order.
func (c *Channel) Active() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.notices))
	for i, n := range c.notices {
		out[i] = n.message
	}
	return out
}

// Success, Error, Warning and Info satisfy the application notifier.

func (c *Channel) Success(message string) { c.Show(message, KindSuccess, DefaultDuration) }
func (c *Channel) Error(message string)   { c.Show(message, KindError, DefaultDuration) }
func (c *Channel) Warning(message string) { c.Show(message, KindWarning, DefaultDuration) }
func (c *Channel) Info(message string)    { c.Show(message, KindInfo, DefaultDuration) }
