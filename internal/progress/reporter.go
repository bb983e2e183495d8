package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter tracks how many bytes of an upload have been sent. It satisfies
// backend.Progress.
type Reporter interface {
	io.Writer
	Start(total int64, desc string)
	Finish()
}

// NewReporter returns a CIReporter if the CI environment variable is set,
// otherwise a TerminalReporter. Both write to stderr.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{out: os.Stderr}
	}
	return &TerminalReporter{out: os.Stderr}
}

// TerminalReporter displays a byte progress bar.
type TerminalReporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewTerminalReporter returns a TerminalReporter drawing to out.
func NewTerminalReporter(out io.Writer) *TerminalReporter {
	return &TerminalReporter{out: out}
}

func (r *TerminalReporter) Start(total int64, desc string) {
	r.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Write(p []byte) (int, error) {
	if r.bar != nil {
		_ = r.bar.Add(len(p))
	}
	return len(p), nil
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// CIReporter prints a start and finish line suitable for CI logs.
type CIReporter struct {
	out   io.Writer
	total int64
	sent  int64
}

// NewCIReporter returns a CIReporter printing to out.
func NewCIReporter(out io.Writer) *CIReporter {
	return &CIReporter{out: out}
}

func (r *CIReporter) Start(total int64, desc string) {
	r.total = total
	r.sent = 0
	fmt.Fprintf(r.out, "%s (%d bytes)\n", desc, total)
}

func (r *CIReporter) Write(p []byte) (int, error) {
	r.sent += int64(len(p))
	return len(p), nil
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.out, "Sent %d/%d bytes\n", r.sent, r.total)
}
