package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func Test_Store_Session(t *testing.T) {
	s := openMemory(t)

	_, err := uuid.Parse(s.Session())
	assert.NoError(t, err)
}

func Test_Store_RecordRecent(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, Entry{At: base, Input: "ยูกิ กี่โมง", Reply: "ตอนนี้เวลา 09:00 นาฬิกาค่ะ", Action: "time", Duration: 120 * time.Millisecond}))
	require.NoError(t, s.Record(ctx, Entry{At: base.Add(time.Minute), Source: SourceText, Input: "ยูกิ สวัสดี", Reply: "สวัสดีค่ะ", Action: "greeting"}))
	require.NoError(t, s.Record(ctx, Entry{At: base.Add(2 * time.Minute), Input: "ยูกิ", Reply: "ค่ะ"}))

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "ยูกิ", entries[0].Input)
	assert.Equal(t, SourceVoice, entries[0].Source)
	assert.Equal(t, s.Session(), entries[0].Session)
	assert.Equal(t, "greeting", entries[1].Action)
	assert.Equal(t, SourceText, entries[1].Source)
	assert.True(t, base.Add(time.Minute).Equal(entries[1].At))
}

func Test_Store_RecordDefaultsTime(t *testing.T) {
	s := openMemory(t)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Record(context.Background(), Entry{Input: "a", Reply: "b"}))

	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, fixed.Equal(entries[0].At))
}

func Test_Store_Stats(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	records := []Entry{
		{Input: "1", Reply: "r", Action: "time", Duration: 100 * time.Millisecond},
		{Input: "2", Reply: "r", Action: "time", Duration: 300 * time.Millisecond},
		{Input: "3", Reply: "r", Action: "web", Source: SourceText, Duration: 200 * time.Millisecond},
		{Input: "4", Reply: "r", Session: "other", Source: SourceText, Duration: 400 * time.Millisecond},
	}
	for _, r := range records {
		require.NoError(t, s.Record(ctx, r))
	}

	st, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.Sessions)
	assert.Equal(t, 2, st.Voice)
	assert.Equal(t, 2, st.Text)
	assert.Equal(t, 250*time.Millisecond, st.AvgDuration)
	assert.Equal(t, []ActionCount{{"time", 2}, {"web", 1}}, st.TopActions)
}

func Test_Store_StatsEmpty(t *testing.T) {
	s := openMemory(t)

	st, err := s.Stats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, st.Total)
	assert.Zero(t, st.AvgDuration)
	assert.Empty(t, st.TopActions)
}

func Test_Store_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), Entry{Input: "x", Reply: "y"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
