package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yuki/internal/i18n"
)

type sent struct{ title, message string }

func newRecording(enabled bool) (*Notifier, *[]sent) {
	var got []sent
	n := New(enabled)
	n.send = func(title, message string) error {
		got = append(got, sent{title, message})
		return nil
	}
	return n, &got
}

func Test_Notifier_Disabled(t *testing.T) {
	n, got := newRecording(false)
	n.Ready()
	n.Error("boom")
	assert.Empty(t, *got)
}

func Test_Notifier_Heading(t *testing.T) {
	defer i18n.SetLanguage(i18n.GetLanguage())
	i18n.SetLanguage(i18n.EN)

	n, got := newRecording(true)
	n.Heard("yuki hello")
	n.Reply("Hello!")

	require.Len(t, *got, 2)
	assert.Equal(t, sent{"Yuki: Heard", "yuki hello"}, (*got)[0])
	assert.Equal(t, sent{"Yuki", "Hello!"}, (*got)[1])
}

func Test_Notifier_TruncatesByRune(t *testing.T) {
	n, got := newRecording(true)
	n.Reply(strings.Repeat("ก", 150))

	require.Len(t, *got, 1)
	assert.Equal(t, strings.Repeat("ก", 100)+"...", (*got)[0].message)
}

func Test_Notifier_SetEnabled(t *testing.T) {
	n, got := newRecording(true)
	n.SetEnabled(false)
	n.Ready()
	assert.Empty(t, *got)
}
