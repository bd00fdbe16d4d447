// Package ui holds terminal progress output for the CLI.
package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var frames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

const tickInterval = 80 * time.Millisecond

// Spinner displays an animated progress indicator, normally on stderr.
type Spinner struct {
	w io.Writer

	mu   sync.Mutex
	msg  string
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner creates a new Spinner (not yet running) that draws on w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{w: w}
}

// Start begins the spinner animation with the given message. Starting a
// running spinner only changes its message.
func (s *Spinner) Start(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = msg
	if s.done != nil {
		return
	}
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.done)
}

// Update changes the spinner message while it's running.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop halts the spinner and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()
	if done == nil {
		return
	}
	close(done)
	s.wg.Wait()

	// Clear the spinner line
	fmt.Fprint(s.w, "\r\033[K")
}

func (s *Spinner) run(done <-chan struct{}) {
	defer s.wg.Done()
	tick := time.NewTicker(tickInterval)
	defer tick.Stop()

	i := 0
	for {
		select {
		case <-done:
			return
		case <-tick.C:
			s.mu.Lock()
			msg := s.msg
			s.mu.Unlock()
			fmt.Fprintf(s.w, "\r\033[K%c %s", frames[i%len(frames)], msg)
			i++
		}
	}
}
