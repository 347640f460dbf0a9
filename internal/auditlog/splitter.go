package auditlog

import (
	"regexp"
	"strings"

	"github.com/waftrail/waftrail/internal/model"
)

// TerminalLetter marks the empty section that closes a transaction.
const TerminalLetter = "Z"

// boundaryRegex recognizes candidate boundary marker lines. The id portion is
// file-specific and unpredictable, so the shape is matched and the id itself
// is learned from the first marker seen for each transaction.
var boundaryRegex = regexp.MustCompile(`^--([A-Za-z0-9@]+)-([A-Z])--$`)

// transaction holds the raw section buffers for one boundary id, before field
// extraction.
type transaction struct {
	ID         string
	Sections   []model.AuditEntry
	Incomplete bool
}

// splitter is the boundary-marker state machine. It groups raw lines into
// labeled sections sharing one boundary id. A section opens on the first
// marker with a given id+letter pair and closes when the same marker repeats;
// the terminal letter with an empty body ends the transaction.
type splitter struct {
	currentID  string
	openLetter string
	buf        []string
	sections   []model.AuditEntry
	done       []transaction
}

// ConsumeLine feeds one input line to the state machine. Trailing carriage
// returns are tolerated on every line.
func (s *splitter) ConsumeLine(line string) {
	line = strings.TrimSuffix(line, "\r")

	m := boundaryRegex.FindStringSubmatch(line)
	if m == nil {
		if s.openLetter != "" {
			s.buf = append(s.buf, line)
		}
		return
	}

	id, letter := m[1], m[2]

	if s.currentID == "" {
		s.currentID = id
		s.openSection(letter)
		return
	}

	if id != s.currentID {
		// A new boundary id while the previous transaction is still in
		// flight: whatever was open is malformed and must not bleed into
		// the new transaction.
		s.discardOpenSection()
		s.finishTransaction(true)
		s.currentID = id
		s.openSection(letter)
		return
	}

	switch {
	case s.openLetter == letter:
		s.closeSection(letter)
	case s.openLetter == "":
		s.openSection(letter)
	default:
		// A different letter opened before the current section closed.
		// Discard the partial content and start the new section.
		s.discardOpenSection()
		s.openSection(letter)
	}
}

// Finish flushes state at end of input and returns the completed
// transactions. A transaction still open at EOF is kept, flagged incomplete,
// as long as it has at least one closed section; a dangling open section's
// partial content is dropped.
func (s *splitter) Finish() []transaction {
	s.discardOpenSection()
	s.finishTransaction(true)
	return s.done
}

func (s *splitter) openSection(letter string) {
	s.openLetter = letter
	s.buf = s.buf[:0]
}

func (s *splitter) closeSection(letter string) {
	content := strings.Join(s.buf, "\n")
	s.sections = append(s.sections, model.AuditEntry{Letter: letter, Content: content})
	s.openLetter = ""
	s.buf = s.buf[:0]

	if letter == TerminalLetter && content == "" {
		s.finishTransaction(false)
	}
}

func (s *splitter) discardOpenSection() {
	s.openLetter = ""
	s.buf = s.buf[:0]
}

func (s *splitter) finishTransaction(incomplete bool) {
	if s.currentID == "" || len(s.sections) == 0 {
		s.currentID = ""
		s.sections = nil
		return
	}
	s.done = append(s.done, transaction{
		ID:         s.currentID,
		Sections:   s.sections,
		Incomplete: incomplete,
	})
	s.currentID = ""
	s.sections = nil
}
