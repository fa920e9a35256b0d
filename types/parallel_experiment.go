package types

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TERMINAL PRINTER

// TerminalPrinter periodically redraws the status line of the running experiment
type TerminalPrinter struct {
	output    *ParallelOutput
	frequency time.Duration

	writer *uilive.Writer
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTerminalPrinter(out io.Writer, frequency time.Duration) *TerminalPrinter {
	writer := uilive.New()
	writer.Out = out
	if frequency <= 0 {
		frequency = time.Second
	}
	return &TerminalPrinter{
		output:    NewParallelOutput(),
		frequency: frequency,
		writer:    writer,
	}
}

func (p *TerminalPrinter) Output() *ParallelOutput {
	return p.output
}

func (p *TerminalPrinter) Start(ctx context.Context) {
	printerCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.frequency)
		defer ticker.Stop()
		for {
			select {
			case <-printerCtx.Done():
				p.print()
				return
			case <-ticker.C:
				p.print()
			}
		}
	}()
}

func (p *TerminalPrinter) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
}

func (p *TerminalPrinter) print() {
	s := p.output.Get()
	if s == "" {
		return
	}
	fmt.Fprintln(p.writer, s)
	p.writer.Flush()
}

// PARALLEL OUTPUT

// used to update and print experiment outputs
type ParallelOutput struct {
	mu        sync.Mutex
	printable string
}

func NewParallelOutput() *ParallelOutput {
	return &ParallelOutput{}
}

// Set the output string (blocking)
func (p *ParallelOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// Try to set the output string (non-blocking)
func (p *ParallelOutput) TrySet(s string) bool {
	if p.mu.TryLock() {
		defer p.mu.Unlock()
		p.printable = s
		return true
	}
	return false
}

// Get the output string (blocking)
func (p *ParallelOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}
