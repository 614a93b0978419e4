package farm

import "time"

const notificationHistory = 50

type Notification struct {
	Text     string
	PostedAt time.Time
}

// Notifier keeps the latest message visible for a fixed duration and a short
// history for the console log.
type Notifier struct {
	ttl     time.Duration
	now     func() time.Time
	current Notification
	history []Notification
}

func NewNotifier(ttl time.Duration, now func() time.Time) *Notifier {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &Notifier{ttl: ttl, now: now}
}

func (n *Notifier) Post(text string) {
	msg := Notification{Text: text, PostedAt: n.now()}
	n.current = msg
	n.history = append(n.history, msg)
	if len(n.history) > notificationHistory {
		n.history = append([]Notification(nil), n.history[len(n.history)-notificationHistory:]...)
	}
}

// Current returns the latest message while it is still visible.
func (n *Notifier) Current() (string, bool) {
	if n.current.Text == "" {
		return "", false
	}
	if n.now().Sub(n.current.PostedAt) >= n.ttl {
		return "", false
	}
	return n.current.Text, true
}

func (n *Notifier) Last() string {
	return n.current.Text
}

func (n *Notifier) History() []Notification {
	return append([]Notification(nil), n.history...)
}
