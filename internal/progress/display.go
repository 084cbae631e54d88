package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Display shows the progress of one batch run. Modules finish in any order,
// so the counter tracks completions. It is safe for concurrent use.
type Display struct {
	mu           sync.Mutex
	capabilities TerminalCapabilities
	symbols      ProgressSymbols
	out          io.Writer
	spinner      *spinner.Spinner
	action       string
	total        int
	done         int
}

// NewDisplay creates a display writing to out. A nil out means stderr.
func NewDisplay(caps TerminalCapabilities, out io.Writer) *Display {
	if out == nil {
		out = os.Stderr
	}
	return &Display{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          out,
	}
}

// Start begins a run over total modules. action names the work, e.g.
// "validating contracts".
func (d *Display) Start(action string, total int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.action, d.total, d.done = action, total, 0
	if !d.capabilities.IsTTY || total == 0 {
		return
	}
	d.spinner = spinner.New(
		spinner.CharSets[d.symbols.SpinnerSet],
		100*time.Millisecond,
		spinner.WithWriter(d.out),
	)
	d.spinner.Suffix = buildSpinnerSuffix(action, 0, total)
	d.spinner.Start()
}

// Finish records a finished module and prints its result line.
func (d *Display) Finish(m ModuleInfo) error {
	if err := m.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.done++
	mark := checkmark(d.symbols, d.capabilities.SupportsColor)
	if m.Status == ModuleFailed {
		mark = failureMark(d.symbols, d.capabilities.SupportsColor)
	}
	line := buildResultLine(mark, d.done, d.total, m)

	if d.spinner == nil {
		fmt.Fprintln(d.out, line)
		return nil
	}
	d.spinner.Stop()
	fmt.Fprintln(d.out, line)
	if d.done < d.total {
		d.spinner.Suffix = buildSpinnerSuffix(d.action, d.done, d.total)
		d.spinner.Start()
	}
	return nil
}

// Stop halts the spinner without printing anything. Safe to call twice.
func (d *Display) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

// Done reports how many modules have finished.
func (d *Display) Done() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}
