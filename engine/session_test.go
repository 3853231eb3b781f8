package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionInfoFileStem(t *testing.T) {
	info := NewSessionInfo(Participant{SubjectID: "s01"}, "city.csv", 7,
		time.Date(2026, 10, 19, 9, 5, 3, 0, time.Local))
	assert.Equal(t, "s01_20261019090503", info.FileStem())
	assert.NotEmpty(t, info.ID)

	other := NewSessionInfo(Participant{SubjectID: "s01"}, "city.csv", 7, time.Now())
	assert.NotEqual(t, info.ID, other.ID)
}

func TestPrepareOutputIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	info := NewSessionInfo(Participant{SubjectID: "s01"}, "city.csv", 7,
		time.Date(2026, 10, 19, 9, 5, 3, 0, time.Local))

	paths, err := PrepareOutput(dir, info)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "csv", "s01_20261019090503.csv"), paths.Results)
	assert.Equal(t, filepath.Join(dir, "log", "s01_20261019090503.log"), paths.Log)
	assert.Equal(t, filepath.Join(dir, "log", "s01_20261019090503.yaml"), paths.Info)

	_, err = PrepareOutput(dir, info)
	require.NoError(t, err)

	for _, sub := range []string{"csv", "log"} {
		st, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	}
	// folders only, no files until the session writes them
	entries, err := os.ReadDir(filepath.Join(dir, "csv"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPrepareOutputFailsOnFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := PrepareOutput(blocker, NewSessionInfo(Participant{SubjectID: "s01"}, "", 1, time.Now()))
	assert.Error(t, err)
}

func TestSessionInfoSidecar(t *testing.T) {
	info := NewSessionInfo(Participant{SubjectID: "s01", Note: "left-handed"}, "city.csv", 42,
		time.Date(2026, 10, 19, 9, 5, 3, 0, time.UTC))
	sched := Schedule{
		Order:     []int{3, 2, 0, 1},
		Positions: []Position{PositionOneTwo, PositionTwoOne, PositionTwoOne, PositionOneTwo},
	}
	info = info.WithSchedule(sched, fj)

	path := filepath.Join(t.TempDir(), "s01.yaml")
	require.NoError(t, WriteSessionInfo(path, info))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "note: left-handed")
	assert.Contains(t, string(raw), "- two_one")

	got, err := ReadSessionInfo(path)
	require.NoError(t, err)
	assert.Equal(t, info.ID, got.ID)
	assert.Equal(t, []int{3, 2, 0, 1}, got.Order)
	assert.Equal(t, []string{"one_two", "two_one", "two_one", "one_two"}, got.Positions)
	assert.Equal(t, []string{"f", "j"}, got.Keys)
	assert.Equal(t, uint64(42), got.Seed)
	assert.True(t, info.StartedAt.Equal(got.StartedAt))
}
