package termgath

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/membench/internal/gatherer"
	"github.com/programme-lv/membench/internal/measure"
)

// TerminalGatherer prints human-readable progress. It writes to stderr
// so the final table on stdout stays machine-pasteable.
type TerminalGatherer struct {
	startedAt time.Time
	out       io.Writer
}

func New() *TerminalGatherer {
	return &TerminalGatherer{startedAt: time.Now(), out: os.Stderr}
}

func (t *TerminalGatherer) StartSession(systemInfo string) {
	fmt.Fprintln(t.out, color.CyanString("== benchmark session started =="))
	if systemInfo != "" {
		fmt.Fprintln(t.out, systemInfo)
	}
}

func (t *TerminalGatherer) StartBuild(target string) {
	fmt.Fprintf(t.out, "-- building %s --\n", target)
}

func (t *TerminalGatherer) FinishBuild(target string, errIfAny error) {
	if errIfAny != nil {
		fmt.Fprintf(t.out, "%s %s\n", color.RedString("build failed:"), target)
		fmt.Fprintln(t.out, gatherer.TrimToRect(errIfAny.Error(), gatherer.MaxOutputHeight, gatherer.MaxOutputWidth))
		return
	}
	fmt.Fprintf(t.out, "-- built %s --\n", target)
}

func (t *TerminalGatherer) StartMeasure(target string, depth int) {
	fmt.Fprintf(t.out, "-> %s depth=%d\n", target, depth)
}

func (t *TerminalGatherer) FinishMeasure(res measure.Result) {
	fmt.Fprintf(t.out, "<- %s depth=%d peak=%s MB\n",
		res.Language, res.Depth, color.GreenString("%.2f", res.PeakMB))
}

func (t *TerminalGatherer) FinishSession(errIfAny error) {
	dur := time.Since(t.startedAt).Round(time.Millisecond)
	if errIfAny != nil {
		fmt.Fprintf(t.out, "%s after %s\n", color.RedString("== session aborted =="), dur)
		return
	}
	fmt.Fprintf(t.out, "== session finished in %s ==\n", dur)
}
