package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() Option {
	return WithRetry(2, time.Millisecond, 2*time.Millisecond)
}

func Test_Client_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"yuki","version":2}`))
	}))
	defer srv.Close()

	var dest struct {
		Name    string `json:"name"`
		Version int    `json:"version"`
	}
	require.NoError(t, New().GetJSON(context.Background(), srv.URL, &dest))
	assert.Equal(t, "yuki", dest.Name)
	assert.Equal(t, 2, dest.Version)
}

func Test_Client_Headers(t *testing.T) {
	var auth, agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		agent = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(WithToken("sk-test"), WithHeader("User-Agent", "yuki-test"))
	_, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "yuki-test", agent)
}

func Test_Client_PostJSON(t *testing.T) {
	var contentType, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var dest struct {
		OK bool `json:"ok"`
	}
	err := New().PostJSON(context.Background(), srv.URL, map[string]string{"model": "llama3.2:1b"}, &dest)
	require.NoError(t, err)
	assert.True(t, dest.OK)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"model":"llama3.2:1b"}`, body)
}

func Test_Client_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	body, err := New(fastRetry()).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func Test_Client_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	_, err := New(fastRetry()).Get(context.Background(), srv.URL)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Body)
	assert.Equal(t, int32(3), calls.Load())
}

func Test_Client_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(fastRetry()).Get(context.Background(), srv.URL)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "missing", apiErr.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func Test_Client_Download(t *testing.T) {
	payload := strings.Repeat("x", 100*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	var last, total int64
	err := New().Download(context.Background(), srv.URL, &buf, func(done, size int64) {
		last, total = done, size
	})

	require.NoError(t, err)
	assert.Equal(t, payload, buf.String())
	assert.Equal(t, int64(len(payload)), last)
	assert.Equal(t, int64(len(payload)), total)
}

func Test_Client_DownloadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	err := New().Download(context.Background(), srv.URL, &buf, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusGone, apiErr.StatusCode)
	assert.Zero(t, buf.Len())
}
