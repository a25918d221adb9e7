// Package textproc normalises recognised speech and formats Thai replies.
package textproc

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRun = regexp.MustCompile(`\s+`)
	lower    = cases.Lower(language.Und)

	urlPattern = regexp.MustCompile(`(?i)^https?://` +
		`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
		`localhost|` +
		`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
		`(?::\d+)?` +
		`(?:/?|[/?]\S+)$`)
)

// pronounReplacements is applied in order. ผม goes first, so the longer
// ผมจะ/ผมอยาก entries only fire on text produced by earlier rules.
var pronounReplacements = [][2]string{
	{"ผม", "ฉันเองก็"},
	{"ครับ", "ค่ะ"},
	{"ผมจะ", "ฉันจะ"},
	{"ผมอยาก", "ฉันอยาก"},
}

// CleanText lower-cases, trims and collapses whitespace in recogniser output.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)
	text = lower.String(strings.TrimSpace(text))
	return spaceRun.ReplaceAllString(text, " ")
}

// ProcessThaiText rewrites masculine first-person forms into Yuki's voice.
func ProcessThaiText(text string) string {
	if text == "" {
		return ""
	}
	for _, r := range pronounReplacements {
		text = strings.ReplaceAll(text, r[0], r[1])
	}
	return text
}

// ExtractQuery strips the first trigger found in command and returns the rest.
// It returns "" when no trigger occurs.
func ExtractQuery(command string, triggers []string) string {
	commandLower := lower.String(command)
	for _, trigger := range triggers {
		if strings.Contains(commandLower, trigger) {
			return strings.TrimSpace(strings.ReplaceAll(commandLower, trigger, ""))
		}
	}
	return ""
}

// ContainsAny reports whether s contains any of the needles.
func ContainsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// SanitizeFilename replaces characters that are invalid on common filesystems.
func SanitizeFilename(name string) string {
	for _, c := range `<>:"/\|?*` {
		name = strings.ReplaceAll(name, string(c), "_")
	}
	return strings.Trim(name, ". ")
}

// FormatDuration renders seconds with one decimal in the largest fitting unit.
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.1f วินาที", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.1f นาที", seconds/60)
	default:
		return fmt.Sprintf("%.1f ชั่วโมง", seconds/3600)
	}
}

// FormatThaiTime renders a whole number of seconds as hours, minutes and seconds.
func FormatThaiTime(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%d ชั่วโมง %d นาที %d วินาที", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%d นาที %d วินาที", minutes, secs)
	default:
		return fmt.Sprintf("%d วินาที", secs)
	}
}

// ValidateURL reports whether u is an absolute http(s) URL with a plausible host.
func ValidateURL(u string) bool {
	return urlPattern.MatchString(u)
}

// CreateSearchURL builds a search URL for the site at base.
func CreateSearchURL(base, query string) string {
	q := url.QueryEscape(query)
	switch {
	case strings.Contains(base, "google.com"):
		return base + "/search?q=" + q
	case strings.Contains(base, "youtube.com"):
		return base + "/results?search_query=" + q
	default:
		return base + "?q=" + q
	}
}

// Quote percent-encodes s for use in a path segment or query value,
// encoding spaces as %20.
func Quote(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
