package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

// Rule maps a case-insensitive regular expression to an action.
type Rule struct {
	Pattern string
	Action  string
	re      *regexp.Regexp
}

// Match reports whether the rule matches command.
func (r Rule) Match(command string) bool {
	return r.re != nil && r.re.MatchString(command)
}

// Tables holds the command table in match order and the reply templates.
type Tables struct {
	Rules     []Rule
	Responses map[string]string
}

// DefaultSearchDirs are consulted in order for commands.json and responses.json.
var DefaultSearchDirs = []string{"data", "src/data", "."}

// defaultRules is used when no commands.json is found.
var defaultRules = [][2]string{
	{"กี่โมงแล้ว", "time"},
	{"ตอนนี้เวลาเท่าไหร่", "time"},
	{"เวลาตอนนี้คือ", "time"},
	{"สวัสดี", "greeting"},
	{"สวัสดียูกิ", "greeting"},
	{"ยูกิสวัสดี", "greeting"},
	{"หวัดดี", "greeting"},
	{`\bhello\b`, "greeting"},
	{`\bhi\b`, "greeting"},
	{"ชื่ออะไร", "name"},
	{"คุณชื่ออะไร", "name"},
	{"เธอชื่ออะไร", "name"},
	{"คุณคือใคร", "name"},
	{"เธอคือใคร", "name"},
	{"อากาศวันนี้เป็นอย่างไร", "weather"},
	{"shutdown", "shutdown"},
	{"shut down", "shutdown"},
}

// DefaultTables returns the built-in command table. Responses fall back to
// the i18n catalogue.
func DefaultTables() Tables {
	rules := make([]Rule, 0, len(defaultRules))
	for _, r := range defaultRules {
		rules = appendRule(rules, r[0], r[1])
	}
	return Tables{Rules: rules, Responses: map[string]string{}}
}

// LoadTables reads commands.json and responses.json from the first directory
// in dirs that has each file. Missing or unreadable files fall back to
// the built-in tables.
func LoadTables(dirs ...string) Tables {
	if len(dirs) == 0 {
		dirs = DefaultSearchDirs
	}
	t := DefaultTables()

	if path, ok := findFile(dirs, "commands.json"); ok {
		rules, err := readRules(path)
		if err != nil {
			slog.Error("error loading commands, using defaults", "file", path, "error", err)
		} else {
			t.Rules = rules
			slog.Info("loaded commands", "count", len(rules), "file", path)
		}
	} else {
		slog.Warn("commands file not found, using default commands")
	}

	if path, ok := findFile(dirs, "responses.json"); ok {
		responses, err := readResponses(path)
		if err != nil {
			slog.Error("error loading responses, using defaults", "file", path, "error", err)
		} else {
			t.Responses = responses
			slog.Info("loaded response templates", "count", len(responses), "file", path)
		}
	} else {
		slog.Warn("responses file not found, using default responses")
	}

	return t
}

func findFile(dirs []string, name string) (string, bool) {
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		} else if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("cannot stat", "file", path, "error", err)
		}
	}
	return "", false
}

func readRules(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRules(f)
}

func readResponses(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	responses := map[string]string{}
	if err := json.Unmarshal(data, &responses); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return responses, nil
}

// ParseRules decodes a command table keeping file order. Object values are
// categories whose entries are flattened; string values are rules.
// A pattern seen twice keeps its first position and takes the later action.
func ParseRules(r io.Reader) ([]Rule, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var rules []Rule
	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch v := tok.(type) {
		case string:
			rules = appendRule(rules, key, v)
		case json.Delim:
			if v != '{' {
				return nil, fmt.Errorf("category %q: expected object, got %v", key, v)
			}
			for dec.More() {
				pattern, err := stringToken(dec)
				if err != nil {
					return nil, err
				}
				action, err := stringToken(dec)
				if err != nil {
					return nil, fmt.Errorf("pattern %q: %w", pattern, err)
				}
				rules = appendRule(rules, pattern, action)
			}
			if err := expectDelim(dec, '}'); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("entry %q: unsupported value %v", key, tok)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return rules, nil
}

func appendRule(rules []Rule, pattern, action string) []Rule {
	for i := range rules {
		if rules[i].Pattern == pattern {
			rules[i].Action = action
			return rules
		}
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		slog.Warn("skipping invalid command pattern", "pattern", pattern, "error", err)
		return rules
	}
	return append(rules, Rule{Pattern: pattern, Action: action, re: re})
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %v, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %v", tok)
	}
	return s, nil
}
