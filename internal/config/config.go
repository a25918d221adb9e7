// Package config provides the application configuration persisted as YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"yuki/internal/apperrors"
)

// DefaultPath is used when no --config flag or YUKI_CONFIG is given.
const DefaultPath = "config.yaml"

// Modifier represents a hotkey modifier.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super" // Win/Cmd
)

// Key represents a hotkey key.
type Key string

const (
	KeySpace  Key = "space"
	KeyReturn Key = "return"
	KeyY      Key = "y"
	KeyF9     Key = "f9"
	KeyF10    Key = "f10"
	KeyF11    Key = "f11"
	KeyF12    Key = "f12"
)

// HotkeyConfig stores the push-to-talk hotkey.
type HotkeyConfig struct {
	Modifiers []Modifier `yaml:"modifiers"`
	Key       Key        `yaml:"key"`
}

// String returns the hotkey as "ctrl+shift+space".
func (h HotkeyConfig) String() string {
	parts := make([]string, 0, len(h.Modifiers)+1)
	for _, m := range h.Modifiers {
		parts = append(parts, string(m))
	}
	parts = append(parts, string(h.Key))
	return strings.Join(parts, "+")
}

// VoiceConfig holds recognition and wake word settings.
type VoiceConfig struct {
	Language             string   `yaml:"language"`
	TTSLanguage          string   `yaml:"tts_language"`
	SpeechRate           float64  `yaml:"speech_rate"`
	Volume               float64  `yaml:"volume"`
	WakeWord             string   `yaml:"wake_word"`
	AlternativeWakeWords []string `yaml:"alternative_wake_words"`
}

// WakeWords returns the primary wake word followed by the alternatives.
func (v VoiceConfig) WakeWords() []string {
	words := make([]string, 0, 1+len(v.AlternativeWakeWords))
	if v.WakeWord != "" {
		words = append(words, v.WakeWord)
	}
	return append(words, v.AlternativeWakeWords...)
}

// AudioConfig holds capture and playback settings. Durations are in seconds.
type AudioConfig struct {
	SampleRate      int     `yaml:"sample_rate"`
	ChunkSize       int     `yaml:"chunk_size"`
	Format          string  `yaml:"format"`
	OutputDirectory string  `yaml:"output_directory"`
	KeepAudioFiles  int     `yaml:"keep_audio_files"`
	EnergyThreshold float64 `yaml:"energy_threshold"`
	DynamicEnergy   bool    `yaml:"dynamic_energy"`
	PauseThreshold  float64 `yaml:"pause_threshold"`
	ListenTimeout   float64 `yaml:"listen_timeout"`
	PhraseTimeLimit float64 `yaml:"phrase_time_limit"`
	AmbientDuration float64 `yaml:"ambient_duration"`
}

// Seconds converts a seconds value from the config to a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// SpeechConfig selects the recognizer backend.
type SpeechConfig struct {
	Engine     string `yaml:"engine"` // vosk or cloud
	ModelID    string `yaml:"model_id"`
	CloudModel string `yaml:"cloud_model"`
	CloudURL   string `yaml:"cloud_url"`
	ModelsDir  string `yaml:"models_dir"`
}

// APIKeys holds third-party credentials.
type APIKeys struct {
	WeatherAPI string `yaml:"weather_api,omitempty"`
	OpenAIAPI  string `yaml:"openai_api,omitempty"`
}

// WeatherConfig holds the weather service settings.
type WeatherConfig struct {
	APIURL          string `yaml:"api_url"`
	DefaultLocation string `yaml:"default_location"`
	Units           string `yaml:"units"`
}

// LLMConfig holds conversation backend settings.
type LLMConfig struct {
	EnableLLM     bool    `yaml:"enable_llm"`
	OllamaURL     string  `yaml:"ollama_url"`
	ModelName     string  `yaml:"model_name"`
	MaxTokens     int     `yaml:"max_tokens"`
	Temperature   float64 `yaml:"temperature"`
	ContextWindow int     `yaml:"context_window"`
	UseCloudAPI   bool    `yaml:"use_cloud_api"`
	OpenAIURL     string  `yaml:"openai_url"`
	OpenAIModel   string  `yaml:"openai_model"`
}

// LoggingConfig holds log level and rotation settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// UIConfig holds desktop integration settings.
type UIConfig struct {
	Language      string       `yaml:"language"`
	Notifications bool         `yaml:"notifications"`
	Tray          bool         `yaml:"tray"`
	Hotkey        HotkeyConfig `yaml:"hotkey"`
}

// HistoryConfig holds the conversation history store settings.
type HistoryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Database string `yaml:"database"`
}

// SetupConfig holds bootstrap installer settings.
type SetupConfig struct {
	RuntimeCommand string `yaml:"runtime_command"`
	MinimumVersion string `yaml:"minimum_version"`
	PackageManager string `yaml:"package_manager,omitempty"` // empty: chosen per OS
	Launcher       string `yaml:"launcher"`
}

// Data is the typed view of the configuration file.
type Data struct {
	Version      string            `yaml:"version"`
	Platform     string            `yaml:"platform"`
	Voice        VoiceConfig       `yaml:"voice"`
	Audio        AudioConfig       `yaml:"audio"`
	Speech       SpeechConfig      `yaml:"speech"`
	Applications map[string]string `yaml:"applications"`
	WebServices  map[string]string `yaml:"web_services"`
	APIKeys      APIKeys           `yaml:"api_keys"`
	Weather      WeatherConfig     `yaml:"weather"`
	LLM          LLMConfig         `yaml:"llm"`
	Logging      LoggingConfig     `yaml:"logging"`
	UI           UIConfig          `yaml:"ui"`
	History      HistoryConfig     `yaml:"history"`
	Setup        SetupConfig       `yaml:"setup"`
}

// Default returns the built-in configuration.
func Default() Data {
	return Data{
		Version:  "2.0.0",
		Platform: "macOS",
		Voice: VoiceConfig{
			Language:             "th-TH",
			TTSLanguage:          "th",
			SpeechRate:           1.0,
			Volume:               1.0,
			WakeWord:             "ยูกิ",
			AlternativeWakeWords: []string{"yuki"},
		},
		Audio: AudioConfig{
			SampleRate:      16000,
			ChunkSize:       1024,
			Format:          "mp3",
			OutputDirectory: "output",
			KeepAudioFiles:  10,
			EnergyThreshold: 4000,
			DynamicEnergy:   true,
			PauseThreshold:  0.8,
			ListenTimeout:   5,
			PhraseTimeLimit: 10,
			AmbientDuration: 1,
		},
		Speech: SpeechConfig{
			Engine:     "cloud",
			ModelID:    "vosk-en-small",
			CloudModel: "whisper-1",
			CloudURL:   "https://api.openai.com/v1/audio/transcriptions",
			ModelsDir:  "models",
		},
		Applications: map[string]string{},
		WebServices: map[string]string{
			"google":    "https://www.google.com",
			"youtube":   "https://www.youtube.com",
			"facebook":  "https://www.facebook.com",
			"instagram": "https://www.instagram.com",
		},
		Weather: WeatherConfig{
			APIURL:          "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
			DefaultLocation: "Thailand",
			Units:           "metric",
		},
		LLM: LLMConfig{
			EnableLLM:     true,
			OllamaURL:     "http://localhost:11434",
			ModelName:     "llama3.2:1b",
			MaxTokens:     500,
			Temperature:   0.7,
			ContextWindow: 10,
			OpenAIURL:     "https://api.openai.com/v1/chat/completions",
			OpenAIModel:   "gpt-3.5-turbo",
		},
		Logging: LoggingConfig{
			Level:      "INFO",
			File:       "logs/yuki_ai.log",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
		UI: UIConfig{
			Language:      "th",
			Notifications: true,
			Tray:          true,
			Hotkey: HotkeyConfig{
				Modifiers: []Modifier{ModCtrl, ModShift},
				Key:       KeySpace,
			},
		},
		History: HistoryConfig{
			Enabled:  true,
			Database: "data/history.db",
		},
		Setup: SetupConfig{
			RuntimeCommand: "go",
			MinimumVersion: "1.22",
			Launcher:       "yuki",
		},
	}
}

// Config stores the application settings.
// The raw YAML tree is authoritative so unknown keys survive Set and Save.
type Config struct {
	mu   sync.RWMutex
	path string
	raw  map[string]any
	data Data
}

// Load reads the configuration at path. A missing file yields the defaults,
// which are written back to path.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	c := &Config{path: path}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c.data = Default()
		if c.raw, err = toTree(c.data); err != nil {
			return nil, apperrors.NewConfigurationError(path, err)
		}
		if err := c.save(); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err != nil {
		return nil, apperrors.NewConfigurationError(path, err)
	}

	if err := c.decode(content); err != nil {
		return nil, apperrors.NewConfigurationError(path, err)
	}
	return c, nil
}

// New returns an in-memory configuration with defaults. Save is a no-op.
func New() *Config {
	c := &Config{data: Default()}
	c.raw, _ = toTree(c.data)
	return c
}

func (c *Config) decode(content []byte) error {
	raw := map[string]any{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return err
	}
	data, err := parse(content, raw)
	if err != nil {
		return err
	}
	c.raw = raw
	c.data = data
	return nil
}

// parse decodes content over the defaults. Map sections present in the
// file replace the default maps instead of merging into them.
func parse(content []byte, raw map[string]any) (Data, error) {
	data := Default()
	if _, ok := raw["applications"]; ok {
		data.Applications = nil
	}
	if _, ok := raw["web_services"]; ok {
		data.WebServices = nil
	}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return Data{}, err
	}
	if data.Applications == nil {
		data.Applications = map[string]string{}
	}
	if data.WebServices == nil {
		data.WebServices = map[string]string{}
	}
	return data, nil
}

// save writes the configuration to its file.
func (c *Config) save() error {
	if c.path == "" {
		return nil
	}
	out, err := yaml.Marshal(c.raw)
	if err != nil {
		return apperrors.NewConfigurationError(c.path, err)
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewConfigurationError(c.path, err)
		}
	}
	if err := os.WriteFile(c.path, out, 0644); err != nil {
		return apperrors.NewConfigurationError(c.path, err)
	}
	return nil
}

// Save writes the configuration to its file.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.save()
}

// Path returns the file the configuration is stored in.
func (c *Config) Path() string {
	return c.path
}

// Get returns the value at a dotted key such as "llm.model_name",
// or def when any segment is missing.
func (c *Config) Get(key string, def any) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var value any = c.raw
	for _, k := range strings.Split(key, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return def
		}
		if value, ok = m[k]; !ok {
			return def
		}
	}
	return value
}

// Set stores value at a dotted key, creating intermediate sections, and
// persists the file. A nil value removes the key.
func (c *Config) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tree := cloneTree(c.raw)
	keys := strings.Split(key, ".")
	node := tree
	for _, k := range keys[:len(keys)-1] {
		next, ok := node[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[k] = next
		}
		node = next
	}
	last := keys[len(keys)-1]
	if value == nil {
		delete(node, last)
	} else {
		node[last] = value
	}

	content, err := yaml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data, err := parse(content, tree)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	c.raw = tree
	c.data = data
	return c.save()
}

// Snapshot returns a copy of the typed configuration.
func (c *Config) Snapshot() Data {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// Voice returns voice settings.
func (c *Config) Voice() VoiceConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Voice
}

// Audio returns audio settings.
func (c *Config) Audio() AudioConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Audio
}

// Speech returns recognizer settings.
func (c *Config) Speech() SpeechConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Speech
}

// Applications returns a copy of the configured application paths.
func (c *Config) Applications() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyMap(c.data.Applications)
}

// ApplicationPath returns the configured path for name.
func (c *Config) ApplicationPath(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.data.Applications[name]
	return p, ok
}

// AddApplication stores an application path.
func (c *Config) AddApplication(name, path string) error {
	return c.Set("applications."+name, path)
}

// RemoveApplication deletes an application path.
func (c *Config) RemoveApplication(name string) error {
	return c.Set("applications."+name, nil)
}

// WebServices returns a copy of the configured web service URLs.
func (c *Config) WebServices() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyMap(c.data.WebServices)
}

// APIKeys returns configured credentials.
func (c *Config) APIKeys() APIKeys {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.APIKeys
}

// Weather returns weather service settings.
func (c *Config) Weather() WeatherConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Weather
}

// LLM returns conversation backend settings.
func (c *Config) LLM() LLMConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.LLM
}

// Logging returns logging settings.
func (c *Config) Logging() LoggingConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Logging
}

// UI returns desktop integration settings.
func (c *Config) UI() UIConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.UI
}

// History returns history store settings.
func (c *Config) History() HistoryConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.History
}

// Setup returns installer settings.
func (c *Config) Setup() SetupConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Setup
}

// NotificationsEnabled returns true if desktop notifications are on.
func (c *Config) NotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.UI.Notifications
}

// ToggleNotifications flips desktop notifications and returns the new state.
func (c *Config) ToggleNotifications() (bool, error) {
	enabled := !c.NotificationsEnabled()
	return enabled, c.Set("ui.notifications", enabled)
}

// SetModelID selects the speech model.
func (c *Config) SetModelID(id string) error {
	return c.Set("speech.model_id", id)
}

// SetHotkey stores the push-to-talk hotkey.
func (c *Config) SetHotkey(h HotkeyConfig) error {
	mods := make([]any, len(h.Modifiers))
	for i, m := range h.Modifiers {
		mods[i] = string(m)
	}
	return c.Set("ui.hotkey", map[string]any{"modifiers": mods, "key": string(h.Key)})
}

// SortedKeys returns the keys of m, longest first, ties alphabetical.
// Longer names are matched before their prefixes.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// AvailableModifiers returns the supported hotkey modifiers.
func AvailableModifiers() []Modifier {
	return []Modifier{ModCtrl, ModShift, ModAlt, ModSuper}
}

// AvailableKeys returns the supported hotkey keys.
func AvailableKeys() []Key {
	return []Key{KeySpace, KeyReturn, KeyY, KeyF9, KeyF10, KeyF11, KeyF12}
}

func toTree(d Data) (map[string]any, error) {
	content, err := yaml.Marshal(d)
	if err != nil {
		return nil, err
	}
	tree := map[string]any{}
	if err := yaml.Unmarshal(content, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// cloneTree deep-copies the nested maps and slices of a decoded YAML tree.
func cloneTree(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneTree(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
