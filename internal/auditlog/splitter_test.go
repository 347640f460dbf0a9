package auditlog

import (
	"strings"
	"testing"
)

// buildTransaction renders one serial-format transaction with open/close
// boundary markers around each section.
func buildTransaction(id string, sections ...[2]string) string {
	var b strings.Builder
	for _, sec := range sections {
		letter, content := sec[0], sec[1]
		b.WriteString("--" + id + "-" + letter + "--\n")
		if content != "" {
			b.WriteString(content + "\n")
		}
		b.WriteString("--" + id + "-" + letter + "--\n")
	}
	b.WriteString("--" + id + "-Z--\n")
	b.WriteString("--" + id + "-Z--\n")
	return b.String()
}

func splitString(t *testing.T, content string) []transaction {
	t.Helper()
	var s splitter
	for _, line := range strings.Split(content, "\n") {
		s.ConsumeLine(line)
	}
	return s.Finish()
}

func TestSplitter_SingleTransaction(t *testing.T) {
	t.Parallel()
	log := buildTransaction("1a2b3c4d",
		[2]string{"A", "[30/Aug/2026:10:00:00 +0000] 1a2b3c4d 203.0.113.77 54321 10.0.0.5 443"},
		[2]string{"B", "GET / HTTP/1.1\nHost: example.com"},
	)

	got := splitString(t, log)
	if len(got) != 1 {
		t.Fatalf("transactions = %d, want 1", len(got))
	}
	tx := got[0]
	if tx.ID != "1a2b3c4d" {
		t.Errorf("id = %q, want 1a2b3c4d", tx.ID)
	}
	if tx.Incomplete {
		t.Error("transaction with terminal marker flagged incomplete")
	}
	if len(tx.Sections) != 3 {
		t.Fatalf("sections = %d, want 3 (A, B, Z)", len(tx.Sections))
	}
	if tx.Sections[2].Letter != "Z" || tx.Sections[2].Content != "" {
		t.Errorf("last section = %q/%q, want empty Z", tx.Sections[2].Letter, tx.Sections[2].Content)
	}
	if !strings.Contains(tx.Sections[1].Content, "Host: example.com") {
		t.Errorf("B section content = %q, missing Host header", tx.Sections[1].Content)
	}
}

func TestSplitter_BoundaryIDDiscoveredPerFile(t *testing.T) {
	t.Parallel()
	// Two files with entirely different id shapes must both split; the id is
	// learned from the first marker, not assumed.
	for _, id := range []string{"c0ffee99", "ZzYy1234@Abc"} {
		log := buildTransaction(id, [2]string{"A", "[30/Aug/2026:10:00:00 +0000] " + id + " 198.51.100.9 1111 10.0.0.5 443"})
		got := splitString(t, log)
		if len(got) != 1 {
			t.Fatalf("id %q: transactions = %d, want 1", id, len(got))
		}
		if got[0].ID != id {
			t.Errorf("discovered id = %q, want %q", got[0].ID, id)
		}
	}
}

func TestSplitter_CRLFTolerated(t *testing.T) {
	t.Parallel()
	log := buildTransaction("aabbccdd",
		[2]string{"B", "Host: example.com"},
	)
	log = strings.ReplaceAll(log, "\n", "\r\n")

	got := splitString(t, log)
	if len(got) != 1 {
		t.Fatalf("transactions = %d, want 1", len(got))
	}
	if c := got[0].Sections[0].Content; strings.ContainsRune(c, '\r') {
		t.Errorf("section content retains carriage return: %q", c)
	}
}

func TestSplitter_NewIDWhileSectionOpen(t *testing.T) {
	t.Parallel()
	// First transaction's B section never closes; the second id appears while
	// it is still open. The partial content must not bleed into the second
	// transaction, and the first is kept flagged incomplete (it has a closed
	// A section).
	log := "--first111-A--\n" +
		"[30/Aug/2026:10:00:00 +0000] first111 203.0.113.1 1 10.0.0.5 443\n" +
		"--first111-A--\n" +
		"--first111-B--\n" +
		"Host: leaked.example\n" +
		buildTransaction("second22", [2]string{"B", "Host: ok.example"})

	got := splitString(t, log)
	if len(got) != 2 {
		t.Fatalf("transactions = %d, want 2", len(got))
	}
	if !got[0].Incomplete {
		t.Error("first transaction not flagged incomplete")
	}
	for _, sec := range got[0].Sections {
		if sec.Letter == "B" {
			t.Errorf("partial B section kept: %q", sec.Content)
		}
	}
	for _, sec := range got[1].Sections {
		if strings.Contains(sec.Content, "leaked.example") {
			t.Errorf("partial content bled into next transaction: %q", sec.Content)
		}
	}
	if got[1].Incomplete {
		t.Error("second transaction flagged incomplete")
	}
}

func TestSplitter_UnterminatedAtEOF(t *testing.T) {
	t.Parallel()
	log := "--feedf00d-A--\n" +
		"[30/Aug/2026:10:00:00 +0000] feedf00d 203.0.113.1 1 10.0.0.5 443\n" +
		"--feedf00d-A--\n" +
		"--feedf00d-B--\n" +
		"Host: example.com\n"

	got := splitString(t, log)
	if len(got) != 1 {
		t.Fatalf("transactions = %d, want 1", len(got))
	}
	if !got[0].Incomplete {
		t.Error("transaction without terminal marker not flagged incomplete")
	}
	if len(got[0].Sections) != 1 || got[0].Sections[0].Letter != "A" {
		t.Errorf("sections = %+v, want only the closed A section", got[0].Sections)
	}
}

func TestSplitter_OnlyOpenSectionAtEOFDiscarded(t *testing.T) {
	t.Parallel()
	log := "--feedf00d-B--\nHost: example.com\n"

	got := splitString(t, log)
	if len(got) != 0 {
		t.Fatalf("transactions = %d, want 0 (no closed sections)", len(got))
	}
}

func TestSplitter_StrayLinesOutsideSectionsIgnored(t *testing.T) {
	t.Parallel()
	log := "noise before any marker\n" +
		buildTransaction("abcd1234", [2]string{"B", "Host: example.com"}) +
		"trailing noise\n"

	got := splitString(t, log)
	if len(got) != 1 {
		t.Fatalf("transactions = %d, want 1", len(got))
	}
	for _, sec := range got[0].Sections {
		if strings.Contains(sec.Content, "noise") {
			t.Errorf("stray line captured into section: %q", sec.Content)
		}
	}
}

func TestSplitter_NonEmptyZDoesNotTerminate(t *testing.T) {
	t.Parallel()
	// A Z section with a body is just a section; only the empty terminal
	// marker pair ends the transaction.
	log := "--abcd1234-Z--\n" +
		"unexpected body\n" +
		"--abcd1234-Z--\n" +
		"--abcd1234-Z--\n" +
		"--abcd1234-Z--\n"

	got := splitString(t, log)
	if len(got) != 1 {
		t.Fatalf("transactions = %d, want 1", len(got))
	}
	if got[0].Incomplete {
		t.Error("transaction terminated by empty Z flagged incomplete")
	}
	if len(got[0].Sections) != 2 {
		t.Errorf("sections = %d, want 2", len(got[0].Sections))
	}
}
