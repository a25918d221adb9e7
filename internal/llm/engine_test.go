package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yuki/internal/httpclient"
	"yuki/internal/i18n"
)

func useThai(t *testing.T) {
	t.Helper()
	prev := i18n.GetLanguage()
	i18n.SetLanguage(i18n.TH)
	t.Cleanup(func() { i18n.SetLanguage(prev) })
}

type fakeBackend struct {
	name      string
	available bool
	reply     string
	err       error
	calls     [][]Message
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Available(context.Context) bool { return f.available }

func (f *fakeBackend) Chat(_ context.Context, messages []Message) (string, error) {
	f.calls = append(f.calls, messages)
	return f.reply, f.err
}

func Test_Engine_PrefersFirstAvailable(t *testing.T) {
	local := &fakeBackend{name: "ollama", available: true, reply: "local"}
	cloud := &fakeBackend{name: "openai", available: true, reply: "cloud"}
	e := NewEngine(10, local, cloud)

	assert.Equal(t, "local", e.Generate(context.Background(), "hi", ""))
	assert.Len(t, local.calls, 1)
	assert.Empty(t, cloud.calls)
}

func Test_Engine_FallsThroughToCloud(t *testing.T) {
	local := &fakeBackend{name: "ollama"}
	cloud := &fakeBackend{name: "openai", available: true, reply: "cloud"}
	e := NewEngine(10, local, cloud)

	assert.True(t, e.IsAvailable(context.Background()))
	assert.Equal(t, "cloud", e.Generate(context.Background(), "hi", ""))
}

func Test_Engine_Messages(t *testing.T) {
	b := &fakeBackend{name: "ollama", available: true, reply: "ok"}
	e := NewEngine(2, b)
	ctx := context.Background()

	e.Generate(ctx, "one", "")
	e.Generate(ctx, "two", "voice")

	msgs := b.calls[1]
	require.Len(t, msgs, 5)
	assert.Equal(t, Message{Role: "system", Content: SystemPrompt}, msgs[0])
	assert.Equal(t, Message{Role: "system", Content: "Context: voice"}, msgs[1])
	assert.Equal(t, Message{Role: "user", Content: "one"}, msgs[2])
	assert.Equal(t, Message{Role: "assistant", Content: "ok"}, msgs[3])
	assert.Equal(t, Message{Role: "user", Content: "two"}, msgs[4])
}

func Test_Engine_HistoryWindow(t *testing.T) {
	b := &fakeBackend{name: "ollama", available: true, reply: "ok"}
	e := NewEngine(2, b)
	ctx := context.Background()

	for _, in := range []string{"a", "b", "c"} {
		e.Generate(ctx, in, "")
	}

	history := e.History()
	require.Len(t, history, 4)
	assert.Equal(t, "b", history[0].Content)
	assert.Equal(t, "c", history[2].Content)

	// Only the last window messages are sent.
	last := b.calls[2]
	require.Len(t, last, 4)
	assert.Equal(t, "b", last[1].Content)
	assert.Equal(t, "ok", last[2].Content)
	assert.Equal(t, "c", last[3].Content)

	e.ClearHistory()
	assert.Empty(t, e.History())
}

func Test_Engine_Failures(t *testing.T) {
	useThai(t)

	tests := []struct {
		name    string
		backend string
		err     error
		want    string
	}{
		{"ollama status", "ollama", fmt.Errorf("ollama chat: %w", &httpclient.APIError{StatusCode: 500}), "ขออภัยค่ะ เกิดข้อผิดพลาดในการประมวลผลคำตอบ"},
		{"openai status", "openai", &httpclient.APIError{StatusCode: 401}, "ขออภัยค่ะ เกิดข้อผิดพลาดในการประมวลผลคำตอบ"},
		{"ollama connection", "ollama", errors.New("connection refused"), "ขออภัยค่ะ ไม่สามารถเชื่อมต่อกับ Ollama ได้"},
		{"openai connection", "openai", errors.New("timeout"), "ขออภัยค่ะ ไม่สามารถเชื่อมต่อกับ cloud API ได้"},
		{"other", "custom", errors.New("x"), "ขออภัยค่ะ ไม่สามารถเชื่อมต่อกับระบบ AI ได้"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(10, &fakeBackend{name: tt.backend, available: true, err: tt.err})
			assert.Equal(t, tt.want, e.Generate(context.Background(), "hi", ""))
			assert.Empty(t, e.History())
		})
	}
}

func Test_Engine_NoBackend(t *testing.T) {
	useThai(t)
	e := NewEngine(10, &fakeBackend{name: "ollama"})

	assert.False(t, e.IsAvailable(context.Background()))
	assert.Equal(t, "ฉันชื่อยูกิค่ะ เป็นผู้ช่วย AI ที่พร้อมช่วยเหลือคุณ!", e.Generate(context.Background(), "what is your name", ""))
}

func Test_Fallback(t *testing.T) {
	useThai(t)

	tests := []struct {
		input string
		key   string
	}{
		{"สวัสดีตอนเช้า", "fallback_greeting"},
		{"HELLO there", "fallback_greeting"},
		{"คุณคือใคร", "fallback_name"},
		{"ช่วยอะไรได้บ้าง", "fallback_help"},
		{"thanks a lot", "fallback_thanks"},
		{"แนะนำอาหารหน่อย", "fallback_food"},
		{"เที่ยวประเทศไทย", "fallback_thailand"},
		{"quantum physics", "fallback_unknown"},
		{"which one is this", "fallback_unknown"},
		{"hi yuki", "fallback_greeting"},
		{"Hi!", "fallback_greeting"},
		{"this is nameless", "fallback_unknown"},
		{"thankfully it worked", "fallback_unknown"},
		{"seafood please", "fallback_unknown"},
		{"thank you", "fallback_thanks"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, i18n.T(tt.key), Fallback(tt.input))
		})
	}
}

func Test_OpenAI_Chat(t *testing.T) {
	var auth string
	var req completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ได้เลยค่ะ"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{URL: srv.URL, APIKey: "sk-1", MaxTokens: 500, Temperature: 0.7})
	reply, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.NoError(t, err)
	assert.Equal(t, "ได้เลยค่ะ", reply)
	assert.Equal(t, "Bearer sk-1", auth)
	assert.Equal(t, "gpt-3.5-turbo", req.Model)
	assert.Equal(t, 500, req.MaxTokens)
	assert.True(t, c.Available(context.Background()))
	assert.False(t, NewOpenAI(OpenAIConfig{}).Available(context.Background()))
}

func Test_OpenAI_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{URL: srv.URL, APIKey: "k"}, httpclient.WithRetry(0, time.Millisecond, time.Millisecond))
	_, err := c.Chat(context.Background(), nil)
	assert.Error(t, err)
}
