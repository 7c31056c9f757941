package prefs

import (
	"sync"
	"time"
)

// StatusDelay is how long a status message stays visible.
const StatusDelay = 1800 * time.Millisecond

// Status is a transient message line. A newer message replaces an older one
// and restarts the clear timer.
type Status struct {
	mu       sync.Mutex
	text     string
	gen      uint64
	delay    time.Duration
	onChange func(text string)
}

// NewStatus creates an empty Status that clears after delay.
// onChange, when non-nil, is called with every new text including "".
func NewStatus(delay time.Duration, onChange func(text string)) *Status {
	return &Status{delay: delay, onChange: onChange}
}

// Show displays text and schedules it to be cleared.
func (s *Status) Show(text string) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.text = text
	s.mu.Unlock()
	s.notify(text)

	time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.text = ""
		s.mu.Unlock()
		s.notify("")
	})
}

// Text returns the message currently shown.
func (s *Status) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Status) notify(text string) {
	if s.onChange != nil {
		s.onChange(text)
	}
}
