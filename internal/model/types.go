package model

import "time"

// AuditEntry is one raw section of a transaction: the section letter plus the
// verbatim content captured between its boundary markers. Entries are
// immutable once captured and owned by their parent AuditGroup.
type AuditEntry struct {
	Letter  string
	Content string
}

// AuditGroup is one logged request/response cycle: all sections sharing one
// boundary id.
type AuditGroup struct {
	TransactionID string
	Timestamp     time.Time // Zero value = timestamp missing or unparsable
	ClientAddr    string
	Host          string // UnknownHost when the request carried no Host header
	Status        int    // 0 = no response status section
	RuleIDs       []string
	FilePath      string // rules file of the first matched rule, "" when none matched
	Sections      []AuditEntry
	Incomplete    bool // terminal marker missing at end of file
}

// HasStatus reports whether a response status was extracted for this group.
func (g *AuditGroup) HasStatus() bool {
	return g.Status > 0
}

// Section returns the first section with the given letter, or nil.
func (g *AuditGroup) Section(letter string) *AuditEntry {
	for i := range g.Sections {
		if g.Sections[i].Letter == letter {
			return &g.Sections[i]
		}
	}
	return nil
}
