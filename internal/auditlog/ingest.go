package auditlog

import (
	"fmt"
	"os"
	"strings"

	"github.com/waftrail/waftrail/internal/model"
)

// Phase identifies a coarse stage of an ingest pass.
type Phase int

const (
	PhaseRead Phase = iota + 1
	PhaseSplit
	PhaseExtract
)

// String returns a short human label for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseRead:
		return "Reading audit log"
	case PhaseSplit:
		return "Splitting sections"
	case PhaseExtract:
		return "Extracting fields"
	default:
		return "Working"
	}
}

// Progress is one progress report during an ingest pass. Fraction covers the
// whole pass, 0..1 across all phases.
type Progress struct {
	Phase    Phase
	Fraction float64
	Lines    int
	Groups   int
	Detail   string
}

// ProgressFunc receives coarse progress reports. It is invoked at intervals,
// never per line, so a caller can drive a responsive progress indicator
// without the callback dominating the pass. A nil ProgressFunc is allowed.
type ProgressFunc func(Progress)

// progressEveryLines bounds how often the split phase reports.
const progressEveryLines = 1000

// Ingest reads the audit log at path and builds a fresh group index. The only
// fatal failure is an unreadable file; malformed transactions and fields
// degrade per-transaction and per-field without aborting the pass.
func Ingest(path string, progress ProgressFunc) (*model.GroupIndex, error) {
	report := func(p Progress) {
		if progress != nil {
			progress(p)
		}
	}

	report(Progress{Phase: PhaseRead, Fraction: 0, Detail: "Reading file from disk"})
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading audit log %s: %w", path, err)
	}
	report(Progress{
		Phase:    PhaseRead,
		Fraction: 0.2,
		Detail:   fmt.Sprintf("Read %.2f MB", float64(len(data))/1e6),
	})

	transactions, lines := splitContent(string(data), report)

	groups := make([]model.AuditGroup, 0, len(transactions))
	for i, t := range transactions {
		groups = append(groups, ExtractGroup(t))
		if (i+1)%progressEveryLines == 0 {
			report(Progress{
				Phase:    PhaseExtract,
				Fraction: 0.8 + 0.2*float64(i+1)/float64(len(transactions)),
				Lines:    lines,
				Groups:   i + 1,
				Detail:   fmt.Sprintf("Indexed %d transactions", i+1),
			})
		}
	}
	report(Progress{
		Phase:    PhaseExtract,
		Fraction: 1,
		Lines:    lines,
		Groups:   len(groups),
		Detail:   fmt.Sprintf("Indexed %d transactions", len(groups)),
	})

	return model.NewGroupIndex(groups), nil
}

// splitContent runs the splitter over the raw text, reporting progress by
// bytes consumed against total input length.
func splitContent(content string, report ProgressFunc) ([]transaction, int) {
	var (
		s        splitter
		consumed int
		lines    int
	)
	total := len(content)
	if total == 0 {
		return nil, 0
	}

	for _, line := range strings.Split(content, "\n") {
		s.ConsumeLine(line)
		consumed += len(line) + 1
		lines++
		if lines%progressEveryLines == 0 {
			report(Progress{
				Phase:    PhaseSplit,
				Fraction: 0.2 + 0.6*float64(consumed)/float64(total),
				Lines:    lines,
				Groups:   len(s.done),
				Detail:   fmt.Sprintf("Scanned %d lines", lines),
			})
		}
	}

	return s.Finish(), lines
}
