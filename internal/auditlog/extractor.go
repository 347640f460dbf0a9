package auditlog

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/waftrail/waftrail/internal/model"
)

// Section letters with extraction rules. Other letters (request body, etc.)
// are kept verbatim for display but carry no typed fields.
const (
	sectionMetadata       = "A"
	sectionRequestHeaders = "B"
	sectionResponseStatus = "F"
	sectionTrail          = "H"
)

// metadataTimeLayout is the bracketed timestamp format of the metadata line.
const metadataTimeLayout = "02/Jan/2006:15:04:05 -0700"

var (
	ruleIDRegex     = regexp.MustCompile(`\[id "(\d+)"\]`)
	ruleFileRegex   = regexp.MustCompile(`\[file "([^"]+)"\]`)
	httpStatusRegex = regexp.MustCompile(`HTTP/\d\.\d\s+(\d{3})`)
)

// ExtractGroup derives typed fields from a transaction's ordered sections.
// Missing or malformed fields degrade to sentinel values; extraction never
// fails outright, so one corrupt transaction cannot abort a whole pass.
func ExtractGroup(t transaction) model.AuditGroup {
	g := model.AuditGroup{
		TransactionID: t.ID,
		Host:          model.UnknownHost,
		Sections:      t.Sections,
		Incomplete:    t.Incomplete,
	}

	for _, sec := range t.Sections {
		switch sec.Letter {
		case sectionMetadata:
			g.Timestamp, g.ClientAddr = extractMetadata(sec.Content)
		case sectionRequestHeaders:
			g.Host = extractHost(sec.Content)
		case sectionResponseStatus:
			g.Status = extractStatus(sec.Content)
		case sectionTrail:
			g.RuleIDs = append(g.RuleIDs, extractRuleIDs(sec.Content)...)
			if g.FilePath == "" {
				g.FilePath = extractRuleFile(sec.Content)
			}
		}
	}
	g.RuleIDs = dedupeInOrder(g.RuleIDs)

	return g
}

// extractMetadata parses the metadata line:
//
//	[timestamp] transaction-id client-addr client-port host-addr host-port
//
// Fields are taken by position, never by address syntax, so the same split
// handles IPv4 and IPv6 alike. The bracketed timestamp counts as the first
// field even though it contains a space.
func extractMetadata(content string) (time.Time, string) {
	line := firstNonEmptyLine(content)
	if !strings.HasPrefix(line, "[") {
		return time.Time{}, ""
	}
	end := strings.Index(line, "]")
	if end < 0 {
		return time.Time{}, ""
	}

	ts, err := time.Parse(metadataTimeLayout, line[1:end])
	if err != nil {
		ts = time.Time{}
	}

	fields := strings.Fields(line[end+1:])
	var clientAddr string
	if len(fields) >= 2 {
		clientAddr = fields[1]
	}
	return ts, clientAddr
}

// extractHost finds a request header literally named Host, case-insensitively.
func extractHost(content string) string {
	for _, line := range strings.Split(content, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(name), "Host") {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(value, "\r"))
		if value != "" {
			return value
		}
	}
	return model.UnknownHost
}

// extractStatus reads the three-digit code from the first response status
// line. Returns 0 when no status line is present.
func extractStatus(content string) int {
	m := httpStatusRegex.FindStringSubmatch(content)
	if m == nil {
		return 0
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return code
}

// extractRuleIDs collects every rule id in the security trail. Ids stay
// strings so leading zeros and oversized values survive intact.
func extractRuleIDs(content string) []string {
	matches := ruleIDRegex.FindAllStringSubmatch(content, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// extractRuleFile reads the rules file of the first matched rule in the
// security trail. Returns "" when no rule carried a file attribution.
func extractRuleFile(content string) string {
	m := ruleFileRegex.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return m[1]
}

// dedupeInOrder drops duplicate ids while preserving first-occurrence order.
func dedupeInOrder(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func firstNonEmptyLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
