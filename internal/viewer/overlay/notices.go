package overlay

import "time"

// NoticeLevel selects the notice styling.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
)

// DefaultNoticeTTL is how long a notice stays on screen.
const DefaultNoticeTTL = 4 * time.Second

// Notice is one transient message.
type Notice struct {
	Text    string
	Level   NoticeLevel
	expires time.Time
}

// Notices holds the transient message stack drawn over the scene. Expired
// entries are dropped on Active.
type Notices struct {
	ttl     time.Duration
	entries []Notice
}

// NewNotices builds a stack with the given time to live per message.
// A non-positive ttl falls back to DefaultNoticeTTL.
func NewNotices(ttl time.Duration) *Notices {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notices{ttl: ttl}
}

// Push adds a message.
func (n *Notices) Push(text string, level NoticeLevel, now time.Time) {
	n.entries = append(n.entries, Notice{
		Text:    text,
		Level:   level,
		expires: now.Add(n.ttl),
	})
}

// Active returns the messages still alive at now, oldest first.
func (n *Notices) Active(now time.Time) []Notice {
	alive := n.entries[:0]
	for _, e := range n.entries {
		if now.Before(e.expires) {
			alive = append(alive, e)
		}
	}
	n.entries = alive
	return n.entries
}
