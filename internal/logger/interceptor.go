package logger

import (
	"fmt"
	"os"
	"sync"
)

// PrintInterceptor mirrors VM print traffic into a log file, one
// prefixed line per message. It is the concrete form of the logging
// sink the VM hands its output to when embedders ask for a log path.
type PrintInterceptor struct {
	mu   sync.Mutex
	path string
}

// NewPrintInterceptor returns an interceptor appending to the file at path.
func NewPrintInterceptor(path string) *PrintInterceptor {
	return &PrintInterceptor{path: path}
}

// Out appends an info line for a message printed by the VM. A nil
// interceptor discards the message.
func (p *PrintInterceptor) Out(message string) error {
	if p == nil {
		return nil
	}
	return p.append("Dartino VM INFO: " + message)
}

// Error appends an error line for a message printed by the VM. A nil
// interceptor discards the message.
func (p *PrintInterceptor) Error(message string) error {
	if p == nil {
		return nil
	}
	return p.append("Dartino VM ERROR: " + message)
}

func (p *PrintInterceptor) append(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("write log file: %w", err)
	}
	return nil
}
