package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Skin holds every color the TUI draws with. Skins are selected by name and
// can be overridden from a YAML file in the user config dir.
type Skin struct {
	// Chrome
	Title           lipgloss.Color `yaml:"title"`
	Border          lipgloss.Color `yaml:"border"`
	HelpText        lipgloss.Color `yaml:"help-text"`
	SearchHighlight lipgloss.Color `yaml:"search-highlight"`
	Header          lipgloss.Color `yaml:"header"`
	Label           lipgloss.Color `yaml:"label"`

	// Table columns
	AuditID   lipgloss.Color `yaml:"audit-id"`
	Timestamp lipgloss.Color `yaml:"timestamp"`
	Domain    lipgloss.Color `yaml:"domain"`
	ClientIP  lipgloss.Color `yaml:"client-ip"`
	RuleID    lipgloss.Color `yaml:"rule-id"`

	// Status classes
	Status2xx     lipgloss.Color `yaml:"status-2xx"`
	Status3xx     lipgloss.Color `yaml:"status-3xx"`
	Status4xx     lipgloss.Color `yaml:"status-4xx"`
	Status5xx     lipgloss.Color `yaml:"status-5xx"`
	StatusUnknown lipgloss.Color `yaml:"status-unknown"`

	// Selection
	SelectedBg lipgloss.Color `yaml:"selected-bg"`
	SelectedFg lipgloss.Color `yaml:"selected-fg"`

	// Detail view content
	HTTPMethod    lipgloss.Color `yaml:"http-method"`
	HTTPStatus    lipgloss.Color `yaml:"http-status"`
	HostHeader    lipgloss.Color `yaml:"host-header"`
	UserAgent     lipgloss.Color `yaml:"user-agent"`
	EngineMessage lipgloss.Color `yaml:"engine-message"`
	RuleIDDetail  lipgloss.Color `yaml:"rule-id-detail"`
	Boundary      lipgloss.Color `yaml:"boundary"`
	HeaderName    lipgloss.Color `yaml:"header-name"`
}

// StatusColor returns the color for an HTTP status code by class.
func (s *Skin) StatusColor(status int) lipgloss.Color {
	switch {
	case status >= 200 && status < 300:
		return s.Status2xx
	case status >= 300 && status < 400:
		return s.Status3xx
	case status >= 400 && status < 500:
		return s.Status4xx
	case status >= 500 && status < 600:
		return s.Status5xx
	default:
		return s.StatusUnknown
	}
}

func defaultSkin() Skin {
	return Skin{
		Title:           lipgloss.Color("45"),
		Border:          lipgloss.Color("240"),
		HelpText:        lipgloss.Color("244"),
		SearchHighlight: lipgloss.Color("226"),
		Header:          lipgloss.Color("51"),
		Label:           lipgloss.Color("87"),

		AuditID:   lipgloss.Color("250"),
		Timestamp: lipgloss.Color("109"),
		Domain:    lipgloss.Color("114"),
		ClientIP:  lipgloss.Color("215"),
		RuleID:    lipgloss.Color("175"),

		Status2xx:     lipgloss.Color("46"),
		Status3xx:     lipgloss.Color("226"),
		Status4xx:     lipgloss.Color("208"),
		Status5xx:     lipgloss.Color("196"),
		StatusUnknown: lipgloss.Color("244"),

		SelectedBg: lipgloss.Color("24"),
		SelectedFg: lipgloss.Color("231"),

		HTTPMethod:    lipgloss.Color("120"),
		HTTPStatus:    lipgloss.Color("214"),
		HostHeader:    lipgloss.Color("114"),
		UserAgent:     lipgloss.Color("110"),
		EngineMessage: lipgloss.Color("203"),
		RuleIDDetail:  lipgloss.Color("213"),
		Boundary:      lipgloss.Color("240"),
		HeaderName:    lipgloss.Color("146"),
	}
}

func monoSkin() Skin {
	white := lipgloss.Color("15")
	gray := lipgloss.Color("7")
	dark := lipgloss.Color("8")
	return Skin{
		Title:           white,
		Border:          dark,
		HelpText:        gray,
		SearchHighlight: white,
		Header:          white,
		Label:           gray,

		AuditID:   gray,
		Timestamp: gray,
		Domain:    white,
		ClientIP:  white,
		RuleID:    gray,

		Status2xx:     white,
		Status3xx:     gray,
		Status4xx:     white,
		Status5xx:     white,
		StatusUnknown: dark,

		SelectedBg: gray,
		SelectedFg: lipgloss.Color("0"),

		HTTPMethod:    white,
		HTTPStatus:    white,
		HostHeader:    gray,
		UserAgent:     gray,
		EngineMessage: white,
		RuleIDDetail:  white,
		Boundary:      dark,
		HeaderName:    gray,
	}
}

// activeSkin is the process-wide skin, set once at startup.
var activeSkin = defaultSkin()

// CurrentSkin returns the active skin.
func CurrentSkin() *Skin {
	return &activeSkin
}

// InitializeSkin selects the named skin, applying overrides from
// <configDir>/skins/<name>.yml when present. Unknown names without a skin
// file are an error; the default skin stays active in that case.
func InitializeSkin(name, configDir string) error {
	if name == "" {
		name = "default"
	}
	var base Skin
	switch name {
	case "default":
		base = defaultSkin()
	case "mono":
		base = monoSkin()
	default:
		base = defaultSkin()
		path := filepath.Join(configDir, "skins", name+".yml")
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("skin %q: %w", name, err)
		}
		if err := yaml.Unmarshal(data, &base); err != nil {
			return fmt.Errorf("skin %q: %w", name, err)
		}
		activeSkin = base
		return nil
	}

	// Builtin skins can still be tweaked from a matching file.
	path := filepath.Join(configDir, "skins", name+".yml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &base); err != nil {
			return fmt.Errorf("skin %q: %w", name, err)
		}
	}

	activeSkin = base
	return nil
}
