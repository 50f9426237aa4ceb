package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyrias/bano/internal/types"
)

func openHistory(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := openHistory(t)

	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	okID, err := h.StartRun(ctx, start)
	require.NoError(t, err)
	require.NoError(t, h.RecordOutput(ctx, okID, OutputRecord{
		Short:     "zh",
		Languages: []string{"zh-tw", "zh-cn"},
		Entries:   7,
		Path:      "/srv/feeds/zh.atom.xml",
		WrittenAt: start.Add(time.Second),
	}))
	require.NoError(t, h.FinishRun(ctx, okID, start.Add(2*time.Second), nil))

	failedID, err := h.StartRun(ctx, start.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, h.FinishRun(ctx, failedID, start.Add(time.Hour+time.Second), errors.New("search failed")))

	runs, err := h.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, failedID, runs[0].ID)
	assert.Equal(t, StatusFailed, runs[0].Status)
	assert.Equal(t, "search failed", runs[0].Error)
	assert.Empty(t, runs[0].Outputs)

	assert.Equal(t, okID, runs[1].ID)
	assert.Equal(t, StatusOK, runs[1].Status)
	require.NotNil(t, runs[1].FinishedAt)
	assert.True(t, start.Add(2*time.Second).Equal(*runs[1].FinishedAt))
	require.Len(t, runs[1].Outputs, 1)
	assert.Equal(t, "zh", runs[1].Outputs[0].Short)
	assert.Equal(t, []string{"zh-tw", "zh-cn"}, runs[1].Outputs[0].Languages)
	assert.Equal(t, 7, runs[1].Outputs[0].Entries)
}

func TestHistoryCorruptLanguages(t *testing.T) {
	ctx := context.Background()
	h := openHistory(t)

	id, err := h.StartRun(ctx, time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO run_outputs (run_id, short, languages, entries, path, written_at)
		VALUES (?, 'en', 'not json', 1, '/srv/feeds/en.atom.xml', ?)
	`, id, time.Date(2026, 10, 18, 9, 0, 1, 0, time.UTC))
	require.NoError(t, err)

	_, err = h.Runs(ctx, 10)
	assert.ErrorContains(t, err, "failed to decode languages of run "+id)
}

func TestHistoryLimit(t *testing.T) {
	ctx := context.Background()
	h := openHistory(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := h.StartRun(ctx, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	runs, err := h.Runs(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, StatusRunning, runs[0].Status)
	assert.Nil(t, runs[0].FinishedAt)
	assert.True(t, base.Add(4*time.Minute).Equal(runs[0].StartedAt))
}

func TestCacheSaveStatuses(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir)
	c.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }

	id, text, name, handle := "1", "coi", "A", "a"
	statuses := []types.Status{{IDStr: &id, Text: &text, User: &types.User{Name: &name, ScreenName: &handle}}}
	path, err := c.SaveStatuses("zh", "zh-tw", statuses)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "zh", "zh-tw", "2026-10-18T09-30-00.000000000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []types.Status
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, statuses, got)
}
