package model

import "testing"

func testGroups() []AuditGroup {
	return []AuditGroup{
		{
			TransactionID: "aaaa1111",
			Status:        200,
			Sections: []AuditEntry{
				{Letter: "A", Content: "metadata"},
				{Letter: "B", Content: "headers"},
			},
		},
		{
			TransactionID: "bbbb2222",
			Sections: []AuditEntry{
				{Letter: "A", Content: "metadata two"},
			},
		},
	}
}

func TestGroupIndex_Accessors(t *testing.T) {
	t.Parallel()
	ix := NewGroupIndex(testGroups())

	if ix.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ix.Len())
	}
	if g := ix.Group(0); g == nil || g.TransactionID != "aaaa1111" {
		t.Errorf("Group(0) = %+v, want aaaa1111", g)
	}
	if g := ix.Group(2); g != nil {
		t.Errorf("Group(2) = %+v, want nil", g)
	}
	if g := ix.Group(-1); g != nil {
		t.Errorf("Group(-1) = %+v, want nil", g)
	}
}

func TestGroupIndex_RawContent(t *testing.T) {
	t.Parallel()
	ix := NewGroupIndex(testGroups())

	sections := ix.RawContent(0)
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	if sections[0].Letter != "A" || sections[1].Letter != "B" {
		t.Errorf("section order = %q %q, want A B", sections[0].Letter, sections[1].Letter)
	}
	if got := ix.RawContent(5); got != nil {
		t.Errorf("RawContent out of range = %v, want nil", got)
	}
}

func TestGroupIndex_IdentityView(t *testing.T) {
	t.Parallel()
	ix := NewGroupIndex(testGroups())
	view := ix.IdentityView()
	if len(view) != 2 || view[0] != 0 || view[1] != 1 {
		t.Errorf("identity view = %v, want [0 1]", view)
	}

	var empty *GroupIndex
	if got := empty.IdentityView(); len(got) != 0 {
		t.Errorf("nil index identity view = %v, want empty", got)
	}
}

func TestAuditGroup_Section(t *testing.T) {
	t.Parallel()
	g := testGroups()[0]

	if sec := g.Section("B"); sec == nil || sec.Content != "headers" {
		t.Errorf("Section(B) = %+v, want headers", sec)
	}
	if sec := g.Section("Z"); sec != nil {
		t.Errorf("Section(Z) = %+v, want nil", sec)
	}
}

func TestAuditGroup_HasStatus(t *testing.T) {
	t.Parallel()
	groups := testGroups()
	if !groups[0].HasStatus() {
		t.Error("status 200 group reports no status")
	}
	if groups[1].HasStatus() {
		t.Error("status-less group reports a status")
	}
}
