package search

import (
	"testing"

	"github.com/waftrail/waftrail/internal/model"
)

func testIndex() *model.GroupIndex {
	return model.NewGroupIndex([]model.AuditGroup{
		{
			TransactionID: "aaaa1111",
			Host:          "shop.Example.com",
			ClientAddr:    "203.0.113.77",
			Status:        200,
		},
		{
			TransactionID: "bbbb2222",
			Host:          "auth.example.com",
			ClientAddr:    "203.0.113.250",
			RuleIDs:       []string{"942100", "933100"},
		},
		{
			TransactionID: "cccc3333",
			Host:          "api.example.com",
			ClientAddr:    "198.51.100.14",
			Status:        503,
		},
	})
}

func assertView(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("view = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("view = %v, want %v", got, want)
		}
	}
}

func TestApply_EmptyQueryMatchesAll(t *testing.T) {
	t.Parallel()
	assertView(t, Apply(testIndex(), ""), []int{0, 1, 2})
	assertView(t, Apply(testIndex(), "   "), []int{0, 1, 2})
}

func TestApply_DomainPrefix(t *testing.T) {
	t.Parallel()
	assertView(t, Apply(testIndex(), "domain:example.com"), []int{0, 1, 2})
	assertView(t, Apply(testIndex(), "domain:SHOP"), []int{0})
	assertView(t, Apply(testIndex(), "domain:nomatch"), nil)
}

func TestApply_AddressPrefix(t *testing.T) {
	t.Parallel()
	assertView(t, Apply(testIndex(), "ip:203.0.113"), []int{0, 1})
	assertView(t, Apply(testIndex(), "address:198.51"), []int{2})
}

func TestApply_RulePrefix(t *testing.T) {
	t.Parallel()
	assertView(t, Apply(testIndex(), "rule:9421"), []int{1})
	assertView(t, Apply(testIndex(), "ruleid:933100"), []int{1})
	assertView(t, Apply(testIndex(), "id:9331"), []int{1})
	assertView(t, Apply(testIndex(), "rule:555"), nil)
}

func TestApply_AuditIDPrefix(t *testing.T) {
	t.Parallel()
	assertView(t, Apply(testIndex(), "auditid:bbbb"), []int{1})
}

func TestApply_StatusSubstring(t *testing.T) {
	t.Parallel()
	// "20" must match 200; it would also match a 420. Absent status never
	// matches.
	assertView(t, Apply(testIndex(), "status:20"), []int{0})
	assertView(t, Apply(testIndex(), "status:50"), []int{2})
	assertView(t, Apply(testIndex(), "http:503"), []int{2})

	withTeapot := model.NewGroupIndex([]model.AuditGroup{
		{TransactionID: "x", Status: 200},
		{TransactionID: "y", Status: 420},
	})
	assertView(t, Apply(withTeapot, "status:20"), []int{0, 1})
}

func TestApply_UnrecognizedPrefixFallsBackToFreeText(t *testing.T) {
	t.Parallel()
	// "header:..." is not a token; the whole string is free text and matches
	// nothing here.
	assertView(t, Apply(testIndex(), "header:example"), nil)
}

func TestApply_FreeTextScansAllFields(t *testing.T) {
	t.Parallel()
	assertView(t, Apply(testIndex(), "example"), []int{0, 1, 2})
	assertView(t, Apply(testIndex(), "942100"), []int{1})
	assertView(t, Apply(testIndex(), "CCCC"), []int{2})
	assertView(t, Apply(testIndex(), "503"), []int{2})
	assertView(t, Apply(testIndex(), "nomatch-token"), nil)
}

func TestApply_OrderFollowsIndex(t *testing.T) {
	t.Parallel()
	// Matching positions always come back in index order, regardless of how
	// strongly any one group matches.
	assertView(t, Apply(testIndex(), "example.com"), []int{0, 1, 2})
}

func TestParse_TrimsValue(t *testing.T) {
	t.Parallel()
	q := Parse("domain:  Shop.Example.com  ")
	if q.Field != FieldDomain {
		t.Fatalf("field = %v, want FieldDomain", q.Field)
	}
	if q.Value != "shop.example.com" {
		t.Errorf("value = %q, want lower-cased trimmed value", q.Value)
	}
}
