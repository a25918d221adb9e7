package speech

import (
	"fmt"
	"log/slog"
	"sync"

	"yuki/internal/apperrors"
	"yuki/internal/models"
)

// Builder creates a recognizer. modelPath is empty for engines that need
// no local model.
type Builder func(modelPath string) (Recognizer, error)

// Factory creates recognizers and swaps the active one.
type Factory struct {
	manager  *models.Manager
	builders map[models.Engine]Builder
	current  Recognizer
	engine   models.Engine
	modelID  string
	mu       sync.RWMutex
}

// NewFactory creates a factory. Engines are added with Register.
func NewFactory(manager *models.Manager) *Factory {
	return &Factory{
		manager:  manager,
		builders: map[models.Engine]Builder{},
	}
}

// Register adds an engine.
func (f *Factory) Register(engine models.Engine, b Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[engine] = b
}

// Create builds a recognizer. modelID selects the model for engines that
// need one and is ignored otherwise.
func (f *Factory) Create(engine models.Engine, modelID string) (Recognizer, error) {
	f.mu.RLock()
	build, ok := f.builders[engine]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown speech engine: %s", engine)
	}

	path := ""
	if engine != models.EngineCloud {
		info, ok := models.GetModel(modelID)
		if !ok {
			return nil, fmt.Errorf("unknown model: %s", modelID)
		}
		if info.Engine != engine {
			return nil, fmt.Errorf("model %s belongs to engine %s, not %s", modelID, info.Engine, engine)
		}
		if f.manager == nil || !f.manager.IsDownloaded(info) {
			return nil, fmt.Errorf("%s: %w", info.Name, apperrors.ErrModelNotDownloaded)
		}
		path = f.manager.GetModelPath(info)
	}

	rec, err := build(path)
	if err != nil {
		return nil, fmt.Errorf("create %s recognizer: %w", engine, err)
	}
	return rec, nil
}

// Load creates a recognizer and makes it current, closing the previous one.
func (f *Factory) Load(engine models.Engine, modelID string) error {
	old, err := f.replace(engine, modelID)
	if err != nil {
		return err
	}
	if old != nil {
		old.Close()
	}
	return nil
}

// Swap replaces the current recognizer; the old one is closed in the
// background so callers holding it can finish.
func (f *Factory) Swap(engine models.Engine, modelID string) error {
	old, err := f.replace(engine, modelID)
	if err != nil {
		return err
	}
	if old != nil {
		go old.Close()
	}
	return nil
}

func (f *Factory) replace(engine models.Engine, modelID string) (Recognizer, error) {
	rec, err := f.Create(engine, modelID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	old := f.current
	f.current = rec
	f.engine = engine
	f.modelID = modelID
	f.mu.Unlock()

	slog.Info("speech recognizer loaded", "engine", engine, "model", modelID)
	return old, nil
}

// Current returns the active recognizer.
func (f *Factory) Current() Recognizer {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// CurrentModelID returns the active model ID.
func (f *Factory) CurrentModelID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.modelID
}

// IsLoaded reports whether a recognizer is active.
func (f *Factory) IsLoaded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current != nil
}

// Close closes the active recognizer.
func (f *Factory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current != nil {
		f.current.Close()
		f.current = nil
	}
}
