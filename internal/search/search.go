// Package search filters a group index with free-text or tokenized queries.
package search

import (
	"strconv"
	"strings"

	"github.com/waftrail/waftrail/internal/model"
)

// Field names a single group field a tokenized query restricts itself to.
type Field int

const (
	FieldAll Field = iota
	FieldDomain
	FieldAddress
	FieldRule
	FieldTransactionID
	FieldStatus
)

// Query is a parsed search string: an optional field restriction plus the
// lower-cased value to match.
type Query struct {
	Field Field
	Value string
}

// Parse tokenizes a raw query string. A recognized prefix before the first
// colon restricts matching to one field; an unrecognized prefix or a query
// without a colon falls back to a scan over every field.
func Parse(raw string) Query {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	prefix, rest, found := strings.Cut(lowered, ":")
	if !found {
		return Query{Field: FieldAll, Value: lowered}
	}

	field := FieldAll
	switch strings.TrimSpace(prefix) {
	case "domain":
		field = FieldDomain
	case "ip", "address":
		field = FieldAddress
	case "rule", "ruleid", "id":
		field = FieldRule
	case "auditid":
		field = FieldTransactionID
	case "status", "http":
		field = FieldStatus
	default:
		// Not a recognized prefix: the whole string is free text.
		return Query{Field: FieldAll, Value: lowered}
	}
	return Query{Field: field, Value: strings.TrimSpace(rest)}
}

// Apply recomputes the filtered view for a query string: the ordered set of
// index positions whose groups match. Order always follows the index, never
// relevance. An empty query matches everything.
func Apply(ix *model.GroupIndex, raw string) []int {
	q := Parse(raw)
	if q.Value == "" {
		return ix.IdentityView()
	}

	view := make([]int, 0, ix.Len())
	for pos, g := range ix.Groups() {
		if q.Matches(&g) {
			view = append(view, pos)
		}
	}
	return view
}

// Matches reports whether one group satisfies the query. All comparisons are
// case-insensitive substring containment; status compares against the code's
// decimal string form.
func (q Query) Matches(g *model.AuditGroup) bool {
	switch q.Field {
	case FieldDomain:
		return contains(g.Host, q.Value)
	case FieldAddress:
		return contains(g.ClientAddr, q.Value)
	case FieldRule:
		return anyRuleContains(g.RuleIDs, q.Value)
	case FieldTransactionID:
		return contains(g.TransactionID, q.Value)
	case FieldStatus:
		return statusContains(g, q.Value)
	default:
		return contains(g.Host, q.Value) ||
			contains(g.ClientAddr, q.Value) ||
			contains(g.TransactionID, q.Value) ||
			anyRuleContains(g.RuleIDs, q.Value) ||
			statusContains(g, q.Value)
	}
}

func contains(field, value string) bool {
	return strings.Contains(strings.ToLower(field), value)
}

func anyRuleContains(ids []string, value string) bool {
	for _, id := range ids {
		if strings.Contains(id, value) {
			return true
		}
	}
	return false
}

func statusContains(g *model.AuditGroup, value string) bool {
	if !g.HasStatus() {
		return false
	}
	return strings.Contains(strconv.Itoa(g.Status), value)
}
