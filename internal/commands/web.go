package commands

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"yuki/internal/config"
	"yuki/internal/i18n"
	"yuki/internal/textproc"
)

var (
	webTriggers = []string{"เปิดเว็บ", "open website", "เปิดเว็บไซต์", "open site", "เข้าเว็บ", "เข้าเว็บไซต์"}

	webSearchTriggers = []string{
		"ค้นหา", "search", "เสิร์ช", "หา",
		"google search", "youtube search",
		"ค้นหาใน google", "ค้นหาใน youtube",
	}
	mapsTriggers = []string{"google maps", "แผนที่"}

	websitePattern = regexp.MustCompile(`(?:เปิดเว็บ|open website|เข้าเว็บ) (.+)`)
)

// searchEngines in precedence order; google is the default.
var searchEngines = []struct {
	name string
	url  string
}{
	{"youtube", "https://www.youtube.com"},
	{"bing", "https://www.bing.com"},
	{"duckduckgo", "https://duckduckgo.com"},
	{"google", "https://www.google.com"},
}

// Web opens websites and runs web searches.
type Web struct {
	opener   Opener
	services map[string]string
	names    []string
}

// NewWeb creates the web family for the configured services.
func NewWeb(opener Opener, services map[string]string) *Web {
	return &Web{
		opener:   opener,
		services: services,
		names:    config.SortedKeys(services),
	}
}

// Matches reports whether command asks to open a website.
func (w *Web) Matches(command string) bool {
	return textproc.ContainsAny(strings.ToLower(command), webTriggers)
}

// Handle processes a web command.
func (w *Web) Handle(command string) string {
	lower := strings.ToLower(command)

	for _, name := range w.names {
		if matchesService(lower, strings.ToLower(name)) {
			return w.openService(name, w.services[name])
		}
	}

	if textproc.ContainsAny(lower, webSearchTriggers) {
		return w.Search(stripTriggers(lower, webTriggers))
	}

	if websitePattern.MatchString(lower) {
		return w.openWebsite(lower)
	}

	return i18n.T("web_unknown")
}

func matchesService(command, name string) bool {
	for _, t := range webTriggers {
		if strings.Contains(command, t+" "+name) {
			return true
		}
	}
	return false
}

// stripTriggers removes every trigger from command, longest first.
func stripTriggers(command string, triggers []string) string {
	sorted := append([]string(nil), triggers...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for _, t := range sorted {
		command = strings.ReplaceAll(command, t, "")
	}
	return squash(command)
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (w *Web) openService(name, url string) string {
	if err := w.opener.OpenURL(url); err != nil {
		slog.Error("error opening service", "service", name, "error", err)
		return i18n.Tf("open_failed", name)
	}
	return i18n.Tf("opened", name)
}

// NamesEngine reports whether a search command names a specific engine or
// Google Maps.
func (w *Web) NamesEngine(command string) bool {
	if textproc.ContainsAny(command, mapsTriggers) {
		return true
	}
	for _, e := range searchEngines[:len(searchEngines)-1] {
		if strings.Contains(command, e.name) {
			return true
		}
	}
	return false
}

// Search runs a web search on the engine named in command, Google by default.
func (w *Web) Search(command string) string {
	command = strings.ToLower(command)
	query := textproc.ExtractQuery(command, searchExtract)
	if query == "" {
		return i18n.T("no_query")
	}

	if textproc.ContainsAny(command, mapsTriggers) {
		return w.MapsSearch(stripTriggers(query, mapsTriggers))
	}

	engine := searchEngines[len(searchEngines)-1]
	for _, e := range searchEngines {
		if strings.Contains(command, e.name) {
			engine = e
			break
		}
	}
	if engine.name == "youtube" {
		return w.YouTubeSearch(squash(strings.ReplaceAll(query, "youtube", "")))
	}

	if err := w.opener.OpenURL(textproc.CreateSearchURL(engine.url, query)); err != nil {
		slog.Error("error performing search", "engine", engine.name, "error", err)
		return i18n.T("web_search_failed")
	}
	return i18n.Tf("web_search_done", query, engine.name)
}

func (w *Web) openWebsite(command string) string {
	m := websitePattern.FindStringSubmatch(command)
	name := ""
	if m != nil {
		name = strings.TrimSpace(m[1])
	}
	if name == "" {
		return i18n.T("web_site_missing")
	}

	if err := w.opener.OpenURL(WebsiteURL(name)); err != nil {
		slog.Error("error opening website", "website", name, "error", err)
		return i18n.Tf("web_site_failed", name)
	}
	return i18n.Tf("web_site_opened", name)
}

// WebsiteURL guesses a URL from a spoken site name: common suffixes are
// dropped and .com is appended.
func WebsiteURL(name string) string {
	for _, tld := range []string{".com", ".co.th", ".org"} {
		name = strings.ReplaceAll(name, tld, "")
	}
	return fmt.Sprintf("https://%s.com", strings.ReplaceAll(name, " ", ""))
}

// MapsSearch opens Google Maps for query.
func (w *Web) MapsSearch(query string) string {
	if err := w.opener.OpenURL("https://www.google.com/maps/search/" + textproc.Quote(query)); err != nil {
		slog.Error("error opening google maps search", "error", err)
		return i18n.T("web_maps_failed")
	}
	return i18n.Tf("web_maps_done", query)
}

// YouTubeSearch opens YouTube search results for query.
func (w *Web) YouTubeSearch(query string) string {
	if err := w.opener.OpenURL(youtubeSearchURL(query)); err != nil {
		slog.Error("error opening youtube search", "error", err)
		return i18n.T("web_youtube_failed")
	}
	return i18n.Tf("web_youtube_done", query)
}

func youtubeSearchURL(query string) string {
	return "https://www.youtube.com/results?search_query=" + textproc.Quote(query)
}
