package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yuki/internal/httpclient"
)

func Test_ParseFirstVideo(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		want    string
		wantErr error
	}{
		{"watch link", `<a href="/watch?v=dQw4w9WgXcQ&list=x">`, "dQw4w9WgXcQ", nil},
		{"initial data", `var ytInitialData = {"videoId":"a1_B2-c3D4e","title":"x"}`, "a1_B2-c3D4e", nil},
		{"first wins", `"videoId":"AAAAAAAAAAA" /watch?v=BBBBBBBBBBB`, "AAAAAAAAAAA", nil},
		{"too short", `/watch?v=short`, "", ErrNoResults},
		{"empty", ``, "", ErrNoResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFirstVideo([]byte(tt.page))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Resolver_FirstVideo(t *testing.T) {
	var query, agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("search_query")
		agent = r.Header.Get("User-Agent")
		w.Write([]byte(`<html>{"videoId":"dQw4w9WgXcQ"}</html>`))
	}))
	defer srv.Close()

	id, err := New(srv.URL).FirstVideo(context.Background(), "ลูกทุ่ง hits")

	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)
	assert.Equal(t, "ลูกทุ่ง hits", query)
	assert.Contains(t, agent, "yuki")
}

func Test_Resolver_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := New(srv.URL, httpclient.WithRetry(0, time.Millisecond, time.Millisecond))
	_, err := r.FirstVideo(context.Background(), "x")

	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}
