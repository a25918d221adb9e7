package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yuki/internal/apperrors"
	"yuki/internal/httpclient"
	"yuki/internal/models"
)

type fakeRecognizer struct {
	name   string
	closed atomic.Bool
}

func (f *fakeRecognizer) Transcribe(context.Context, []float32, string) (string, error) {
	return f.name, nil
}

func (f *fakeRecognizer) Close() {
	f.closed.Store(true)
}

func (f *fakeRecognizer) Name() string {
	return f.name
}

func Test_BaseLanguage(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"th-TH", "th"},
		{"en", "en"},
		{"EN-us", "en"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseLanguage(tt.tag))
		})
	}
}

func Test_CloudRecognizer_Transcribe(t *testing.T) {
	var (
		auth, model, lang, format, filename string
		wav                                 []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		model = r.FormValue("model")
		lang = r.FormValue("language")
		format = r.FormValue("response_format")
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		filename = hdr.Filename
		wav, _ = io.ReadAll(f)
		w.Write([]byte(`{"text":"  ยูกิ เปิดเพลง  "}`))
	}))
	defer srv.Close()

	rec, err := NewCloud(CloudConfig{URL: srv.URL, APIKey: "sk-test"})
	require.NoError(t, err)

	text, err := rec.Transcribe(context.Background(), make([]float32, 160), "th-TH")

	require.NoError(t, err)
	assert.Equal(t, "ยูกิ เปิดเพลง", text)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "whisper-1", model)
	assert.Equal(t, "th", lang)
	assert.Equal(t, "json", format)
	assert.Equal(t, "phrase.wav", filename)
	assert.Len(t, wav, 44+160*2)
	assert.Equal(t, "RIFF", string(wav[:4]))
}

func Test_CloudRecognizer_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":" "}`))
	}))
	defer srv.Close()

	rec, err := NewCloud(CloudConfig{URL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = rec.Transcribe(context.Background(), make([]float32, 16), "")
	assert.ErrorIs(t, err, apperrors.ErrNoSpeech)
}

func Test_CloudRecognizer_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	rec, err := NewCloud(CloudConfig{URL: srv.URL, APIKey: "k"},
		httpclient.WithRetry(0, time.Millisecond, time.Millisecond))
	require.NoError(t, err)

	_, err = rec.Transcribe(context.Background(), make([]float32, 16), "th")

	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func Test_NewCloud_NoKey(t *testing.T) {
	_, err := NewCloud(CloudConfig{})

	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "api_keys.openai_api", cfgErr.Path)
}

func newFactory(t *testing.T) (*Factory, *models.Manager) {
	t.Helper()
	mgr, err := models.NewManager(t.TempDir())
	require.NoError(t, err)

	f := NewFactory(mgr)
	f.Register(models.EngineCloud, func(path string) (Recognizer, error) {
		assert.Empty(t, path)
		return &fakeRecognizer{name: "cloud"}, nil
	})
	f.Register(models.EngineVosk, func(path string) (Recognizer, error) {
		return &fakeRecognizer{name: filepath.Base(path)}, nil
	})
	return f, mgr
}

func Test_Factory_LoadCloud(t *testing.T) {
	f, _ := newFactory(t)
	assert.False(t, f.IsLoaded())

	require.NoError(t, f.Load(models.EngineCloud, ""))

	assert.True(t, f.IsLoaded())
	assert.Equal(t, "cloud", f.Current().Name())
}

func Test_Factory_ModelNotDownloaded(t *testing.T) {
	f, _ := newFactory(t)

	err := f.Load(models.EngineVosk, "vosk-en-small")

	assert.ErrorIs(t, err, apperrors.ErrModelNotDownloaded)
	assert.False(t, f.IsLoaded())
}

func Test_Factory_UnknownModel(t *testing.T) {
	f, _ := newFactory(t)

	assert.Error(t, f.Load(models.EngineVosk, "nope"))
}

func Test_Factory_UnknownEngine(t *testing.T) {
	f := NewFactory(nil)

	assert.Error(t, f.Load(models.EngineVosk, "vosk-en-small"))
}

func Test_Factory_BuilderError(t *testing.T) {
	f := NewFactory(nil)
	f.Register(models.EngineCloud, func(string) (Recognizer, error) {
		return nil, errors.New("no key")
	})

	err := f.Load(models.EngineCloud, "")
	assert.ErrorContains(t, err, "no key")
}

func Test_Factory_SwapClosesPrevious(t *testing.T) {
	f, mgr := newFactory(t)
	info, _ := models.GetModel("vosk-en-small")
	require.NoError(t, os.MkdirAll(mgr.GetModelPath(info), 0755))

	require.NoError(t, f.Load(models.EngineCloud, ""))
	first := f.Current().(*fakeRecognizer)

	require.NoError(t, f.Swap(models.EngineVosk, "vosk-en-small"))

	assert.Equal(t, info.Filename, f.Current().Name())
	assert.Equal(t, "vosk-en-small", f.CurrentModelID())
	assert.Eventually(t, first.closed.Load, time.Second, 5*time.Millisecond)

	f.Close()
	assert.False(t, f.IsLoaded())
}
