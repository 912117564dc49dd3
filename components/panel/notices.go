package panel

import (
	"fmt"
	"sync"
	"time"
)

// Notice is a non-fatal warning surfaced at the top of the dashboard, such as
// a table fetch that fell back to an empty result.
type Notice struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// NoticeFeed collects warnings raised during a render pass. A fresh feed is
// used per pass so stale warnings never linger across refreshes.
type NoticeFeed struct {
	mu      sync.Mutex
	notices []Notice
}

// NewNoticeFeed creates an empty feed.
func NewNoticeFeed() *NoticeFeed {
	return &NoticeFeed{}
}

// Warnf records a formatted warning.
func (f *NoticeFeed) Warnf(kind, format string, args ...any) {
	if f == nil {
		return
	}
	f.mu.Lock()
	f.notices = append(f.notices, Notice{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		At:      time.Now().UTC(),
	})
	f.mu.Unlock()
}

// Notices returns a copy of the collected warnings in arrival order.
func (f *NoticeFeed) Notices() []Notice {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notice(nil), f.notices...)
}

// Len reports how many warnings were raised.
func (f *NoticeFeed) Len() int {
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notices)
}
