package model

// GroupIndex is the ordered collection of completed transactions from one
// parse pass. Order is order of appearance in the file. The index is
// append-only while a pass runs and replaced wholesale on refresh; it is
// never mutated in place once handed to a consumer.
type GroupIndex struct {
	groups []AuditGroup
}

// NewGroupIndex wraps a finished parse pass's groups.
func NewGroupIndex(groups []AuditGroup) *GroupIndex {
	return &GroupIndex{groups: groups}
}

// Len returns the number of indexed transactions.
func (ix *GroupIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.groups)
}

// Group returns the transaction at position pos, or nil when out of range.
func (ix *GroupIndex) Group(pos int) *AuditGroup {
	if ix == nil || pos < 0 || pos >= len(ix.groups) {
		return nil
	}
	return &ix.groups[pos]
}

// Groups returns the underlying ordered slice. Callers must treat it as
// read-only.
func (ix *GroupIndex) Groups() []AuditGroup {
	if ix == nil {
		return nil
	}
	return ix.groups
}

// RawContent returns the verbatim section content of the transaction at pos,
// in the order sections were encountered, for detail display.
func (ix *GroupIndex) RawContent(pos int) []AuditEntry {
	g := ix.Group(pos)
	if g == nil {
		return nil
	}
	return g.Sections
}

// IdentityView returns the filtered view that matches everything: every
// position in index order.
func (ix *GroupIndex) IdentityView() []int {
	view := make([]int, ix.Len())
	for i := range view {
		view[i] = i
	}
	return view
}
