package call

import "sync"

// LastError holds the diagnostic of the most recent failing call. It is
// overwritten by every failure and never cleared by a success.
type LastError struct {
	mu  sync.RWMutex
	msg string
}

// Set stores msg.
func (l *LastError) Set(msg string) {
	l.mu.Lock()
	l.msg = msg
	l.mu.Unlock()
}

// Get returns a copy of the stored diagnostic, or "" if none.
func (l *LastError) Get() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.msg
}

// Reset clears the slot.
func (l *LastError) Reset() {
	l.Set("")
}
