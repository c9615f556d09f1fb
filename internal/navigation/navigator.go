// Package navigation stands in for browser location: where the caller is and
// where it has been told to go next.
package navigation

import (
	"sync"
	"time"
)

// Navigator is consulted by the API client when the gateway rejects a session.
type Navigator interface {
	Current() string
	Navigate(path string)
}

// DelayedNavigator can schedule a navigation, e.g. after registration.
type DelayedNavigator interface {
	Navigator
	NavigateAfter(path string, delay time.Duration)
}

// Recorder remembers the most recent navigation request. It is safe for use
// by concurrent API calls made during a single request or command.
type Recorder struct {
	mu      sync.Mutex
	current string
	target  string
	delay   time.Duration
	pending bool
}

// NewRecorder starts at current.
func NewRecorder(current string) *Recorder {
	return &Recorder{current: current}
}

func (r *Recorder) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// SetCurrent moves the recorder to path without recording a navigation.
func (r *Recorder) SetCurrent(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = path
}

func (r *Recorder) Navigate(path string) {
	r.NavigateAfter(path, 0)
}

func (r *Recorder) NavigateAfter(path string, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = path
	r.delay = delay
	r.pending = true
}

// Pending returns the last requested navigation, if any.
func (r *Recorder) Pending() (string, time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target, r.delay, r.pending
}

// Reset drops any pending navigation.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target, r.delay, r.pending = "", 0, false
}
