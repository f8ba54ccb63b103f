package experiment

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// Printer repeatedly prints one line per Output to a terminal,
// overwriting the previous lines each time
type Printer struct {
	outputs   []*Output
	frequency time.Duration
	done      chan struct{}
	stopped   chan struct{}

	writer *uilive.Writer
	lines  []io.Writer
}

// NewPrinter returns a Printer which writes to out every frequency
func NewPrinter(out io.Writer, frequency time.Duration) *Printer {
	writer := uilive.New()
	writer.Out = out
	return &Printer{
		frequency: frequency,
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		writer:    writer,
	}
}

// NewOutput adds a line to the Printer. It must be called before
// Start.
func (p *Printer) NewOutput() *Output {
	out := &Output{}
	if len(p.outputs) == 0 {
		p.lines = append(p.lines, p.writer)
	} else {
		p.lines = append(p.lines, p.writer.Newline())
	}
	p.outputs = append(p.outputs, out)
	return out
}

// Start prints in the background until Stop is called or ctx is done
func (p *Printer) Start(ctx context.Context) {
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(p.frequency)
		defer ticker.Stop()
		for {
			select {
			case <-p.done:
				p.print()
				return
			case <-ctx.Done():
				p.print()
				return
			case <-ticker.C:
				p.print()
			}
		}
	}()
}

// Stop prints the outputs a final time and waits for the Printer to
// finish
func (p *Printer) Stop() {
	close(p.done)
	<-p.stopped
}

func (p *Printer) print() {
	for i, output := range p.outputs {
		fmt.Fprintln(p.lines[i], output.Get())
	}
	p.writer.Flush()
}

// Output is a line of a Printer which can be set concurrently
type Output struct {
	mu        sync.Mutex
	printable string
}

// Set sets the line, blocking until it can
func (o *Output) Set(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.printable = s
}

// TrySet sets the line if no one else holds it and reports whether it
// did
func (o *Output) TrySet(s string) bool {
	if !o.mu.TryLock() {
		return false
	}
	defer o.mu.Unlock()
	o.printable = s
	return true
}

// Get returns the line
func (o *Output) Get() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.printable
}
