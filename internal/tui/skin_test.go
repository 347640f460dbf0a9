package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestInitializeSkin_Builtins(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { activeSkin = defaultSkin() })

	for _, name := range []string{"", "default", "mono"} {
		if err := InitializeSkin(name, dir); err != nil {
			t.Errorf("InitializeSkin(%q) = %v", name, err)
		}
	}
}

func TestInitializeSkin_UnknownNameWithoutFile(t *testing.T) {
	t.Cleanup(func() { activeSkin = defaultSkin() })

	if err := InitializeSkin("nosuchskin", t.TempDir()); err == nil {
		t.Fatal("InitializeSkin for a missing custom skin returned no error")
	}
}

func TestInitializeSkin_CustomFileOverrides(t *testing.T) {
	t.Cleanup(func() { activeSkin = defaultSkin() })

	dir := t.TempDir()
	skinDir := filepath.Join(dir, "skins")
	if err := os.MkdirAll(skinDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "title: \"99\"\nstatus-5xx: \"#ff0000\"\n"
	if err := os.WriteFile(filepath.Join(skinDir, "custom.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := InitializeSkin("custom", dir); err != nil {
		t.Fatalf("InitializeSkin: %v", err)
	}
	s := CurrentSkin()
	if s.Title != lipgloss.Color("99") {
		t.Errorf("title = %q, want overridden 99", s.Title)
	}
	if s.Status5xx != lipgloss.Color("#ff0000") {
		t.Errorf("status-5xx = %q, want #ff0000", s.Status5xx)
	}
	// Keys absent from the file keep their defaults.
	if s.Domain != defaultSkin().Domain {
		t.Errorf("domain = %q, want default preserved", s.Domain)
	}
}

func TestSkin_StatusColor(t *testing.T) {
	s := defaultSkin()
	if s.StatusColor(204) != s.Status2xx {
		t.Error("204 not classed 2xx")
	}
	if s.StatusColor(302) != s.Status3xx {
		t.Error("302 not classed 3xx")
	}
	if s.StatusColor(404) != s.Status4xx {
		t.Error("404 not classed 4xx")
	}
	if s.StatusColor(503) != s.Status5xx {
		t.Error("503 not classed 5xx")
	}
	if s.StatusColor(0) != s.StatusUnknown {
		t.Error("absent status not classed unknown")
	}
}
