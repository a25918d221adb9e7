package models

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"yuki/internal/httpclient"
)

// Progress reports a running download.
type Progress struct {
	ModelID    string
	Downloaded int64
	Total      int64
	Done       bool
	Error      error
}

// Manager stores models below a directory, one subdirectory per engine.
type Manager struct {
	modelsDir string
	http      *httpclient.Client
	mu        sync.Mutex
}

// NewManager creates a manager rooted at dir.
func NewManager(dir string, opts ...httpclient.Option) (*Manager, error) {
	if err := os.MkdirAll(filepath.Join(dir, string(EngineVosk)), 0o755); err != nil {
		return nil, fmt.Errorf("create models directory: %w", err)
	}
	// Archives are large; the transfer is bounded by ctx only.
	opts = append([]httpclient.Option{httpclient.WithTimeout(0)}, opts...)
	return &Manager{modelsDir: dir, http: httpclient.New(opts...)}, nil
}

// ModelsDir returns the models directory.
func (m *Manager) ModelsDir() string {
	return m.modelsDir
}

// GetModelPath returns where a model lives once downloaded.
func (m *Manager) GetModelPath(info ModelInfo) string {
	return filepath.Join(m.modelsDir, string(info.Engine), info.Filename)
}

// IsDownloaded reports whether the model is present.
func (m *Manager) IsDownloaded(info ModelInfo) bool {
	stat, err := os.Stat(m.GetModelPath(info))
	if err != nil {
		return false
	}
	if info.IsZip {
		return stat.IsDir()
	}
	return stat.Size() > 0
}

// ListDownloaded returns the downloaded models in registry order.
func (m *Manager) ListDownloaded() []ModelInfo {
	var downloaded []ModelInfo
	for _, model := range Registry {
		if m.IsDownloaded(model) {
			downloaded = append(downloaded, model)
		}
	}
	return downloaded
}

// Download fetches a model and unpacks it when it is an archive. Progress
// updates are sent to progress without blocking, except the final one.
func (m *Manager) Download(ctx context.Context, info ModelInfo, progress chan<- Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsDownloaded(info) {
		if progress != nil {
			progress <- Progress{ModelID: info.ID, Downloaded: info.Size, Total: info.Size, Done: true}
		}
		return nil
	}

	slog.Info("downloading model", "model", info.ID, "url", info.URL)

	tmp, err := os.CreateTemp(m.modelsDir, info.ID+"-*.part")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	var total int64
	err = m.http.Download(ctx, info.URL, tmp, func(done, size int64) {
		total = size
		if total <= 0 {
			total = info.Size
		}
		if progress != nil {
			select {
			case progress <- Progress{ModelID: info.ID, Downloaded: done, Total: total}:
			default:
			}
		}
	})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("download %s: %w", info.ID, err)
	}

	dest := m.GetModelPath(info)
	if info.IsZip {
		if err := unzip(tmpPath, filepath.Dir(dest)); err != nil {
			return fmt.Errorf("unpack %s: %w", info.ID, err)
		}
	} else if err := os.Rename(tmpPath, dest); err != nil {
		return err
	}

	slog.Info("model downloaded", "model", info.ID, "path", dest)
	if progress != nil {
		progress <- Progress{ModelID: info.ID, Downloaded: total, Total: total, Done: true}
	}
	return nil
}

func unzip(src, destDir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	root := filepath.Clean(destDir) + string(os.PathSeparator)
	for _, f := range r.File {
		fpath := filepath.Join(destDir, f.Name)
		if !strings.HasPrefix(fpath, root) {
			return fmt.Errorf("illegal path in archive: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fpath), 0o755); err != nil {
			return err
		}
		if err := extract(f, fpath); err != nil {
			return err
		}
	}
	return nil
}

func extract(f *zip.File, path string) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(out, rc)
	return err
}

// Delete removes a downloaded model.
func (m *Manager) Delete(info ModelInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return os.RemoveAll(m.GetModelPath(info))
}
