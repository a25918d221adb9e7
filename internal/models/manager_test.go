package models

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func serve(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testModel(url string) ModelInfo {
	return ModelInfo{
		ID:       "vosk-test",
		Engine:   EngineVosk,
		Filename: "vosk-model-test",
		URL:      url,
		Size:     1024,
		IsZip:    true,
	}
}

func Test_Registry(t *testing.T) {
	m, ok := GetModel(DefaultModelID())
	require.True(t, ok)
	assert.Equal(t, EngineVosk, m.Engine)
	assert.True(t, m.IsZip)

	_, ok = GetModel("whisper-tiny")
	assert.False(t, ok)

	assert.Len(t, GetModelsByEngine(EngineVosk), len(Registry))
	assert.Empty(t, GetModelsByEngine(EngineCloud))
	assert.Equal(t, "Vosk", EngineName(EngineVosk))
	assert.Equal(t, "custom", EngineName("custom"))
}

func Test_Manager_DownloadUnzips(t *testing.T) {
	archive := zipArchive(t, map[string]string{
		"vosk-model-test/am/final.mdl":   "model",
		"vosk-model-test/conf/mfcc.conf": "conf",
	})
	srv := serve(t, archive)

	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	info := testModel(srv.URL)
	assert.False(t, m.IsDownloaded(info))

	progress := make(chan Progress, 64)
	require.NoError(t, m.Download(context.Background(), info, progress))

	assert.True(t, m.IsDownloaded(info))
	data, err := os.ReadFile(filepath.Join(m.GetModelPath(info), "am", "final.mdl"))
	require.NoError(t, err)
	assert.Equal(t, "model", string(data))

	var final Progress
	for len(progress) > 0 {
		final = <-progress
	}
	assert.True(t, final.Done)
	assert.Equal(t, int64(len(archive)), final.Total)

	leftovers, err := filepath.Glob(filepath.Join(m.ModelsDir(), "*.part"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func Test_Manager_AlreadyDownloaded(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	info := testModel("http://127.0.0.1:1/unused.zip")
	require.NoError(t, os.MkdirAll(m.GetModelPath(info), 0o755))

	progress := make(chan Progress, 1)
	require.NoError(t, m.Download(context.Background(), info, progress))
	assert.True(t, (<-progress).Done)
}

func Test_Manager_RejectsZipSlip(t *testing.T) {
	srv := serve(t, zipArchive(t, map[string]string{"../../escape.txt": "x"}))

	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	require.Error(t, m.Download(context.Background(), testModel(srv.URL), nil))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "escape.txt"))
}

func Test_Manager_Delete(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	info := testModel("")
	require.NoError(t, os.MkdirAll(m.GetModelPath(info), 0o755))
	require.Len(t, m.ListDownloaded(), 0)

	require.NoError(t, m.Delete(info))
	assert.False(t, m.IsDownloaded(info))
}
