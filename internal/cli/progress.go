package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/openspec-dev/openspec/internal/validation"
)

// progressReporter draws a one-line spinner on stderr while items are
// validated. It stays silent when stderr is not a terminal or output is JSON.
type progressReporter struct {
	enabled bool
	out     io.Writer
	label   string
	total   int
	start   time.Time
	spinner int
	lastLen int
}

func newProgressReporter(label string, total int, asJSON bool) *progressReporter {
	return &progressReporter{
		enabled: stderrIsTerminal() && !asJSON,
		out:     os.Stderr,
		label:   label,
		total:   total,
		start:   time.Now(),
	}
}

func (r *progressReporter) Update(done, total int, item validation.Item) {
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	path := strings.TrimSpace(item.Path)
	if len(path) > 72 {
		path = "..." + path[len(path)-69:]
	}
	r.printStatus(fmt.Sprintf("%s %s %d/%d %s", frame, r.label, done, total, path))
}

func (r *progressReporter) Done() {
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d items in %s)", r.label, r.total, elapsed))
	fmt.Fprintln(r.out)
}

func (r *progressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(r.out, "\r%s", status)
}
