package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func sampleRecord(trial int) Record {
	return Record{
		SubjectID:   "s01",
		Trial:       trial,
		City1:       "Tokyo",
		City2:       "Osaka",
		Population1: 9000000,
		Population2: 2700000,
		Choice:      SideCity1,
		Answer:      SideCity1,
		RT:          500 * time.Millisecond,
		Key:         "f",
		Position:    PositionOneTwo,
	}
}

func TestResultLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s01.csv")
	l, err := CreateResultLog(path, "")
	require.NoError(t, err)

	require.NoError(t, l.Header())
	require.NoError(t, l.Append(sampleRecord(0)))

	// rows are on disk before Close
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"subj_id,trial,city_1,city_2,population_1,population_2,choice,correct_answer,result,rt,key,pos\n"+
			"s01,0,Tokyo,Osaka,9000000,2700000,city_1,city_1,correct,0.500000,f,one_two\n",
		string(data))

	require.NoError(t, l.Append(sampleRecord(1)))
	require.NoError(t, l.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "s01,1,Tokyo")
}

func TestResultLogQuotesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s01.csv")
	l, err := CreateResultLog(path, "utf-8")
	require.NoError(t, err)
	defer l.Close()

	rec := sampleRecord(0)
	rec.City1 = "Washington, D.C."
	require.NoError(t, l.Append(rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Washington, D.C."`)
}

func TestResultLogShiftJIS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s01.csv")
	l, err := CreateResultLog(path, "shift_jis")
	require.NoError(t, err)

	rec := sampleRecord(0)
	rec.City1, rec.City2 = "東京", "大阪"
	require.NoError(t, l.Append(rec))
	require.NoError(t, l.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "s01,0,東京,大阪")
	assert.NotContains(t, string(raw), "東京")
}

func TestResultLogCP932(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s01.csv")
	l, err := CreateResultLog(path, "cp932")
	require.NoError(t, err)

	rec := sampleRecord(0)
	rec.City1 = "名古屋"
	require.NoError(t, l.Append(rec))
	require.NoError(t, l.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "s01,0,名古屋,Osaka")
}

func TestMultiSinkStopsAtFirstError(t *testing.T) {
	first := &memorySink{}
	broken := &memorySink{err: eris.New("boom")}
	last := &memorySink{}
	m := MultiSink{first, broken, last}

	assert.Error(t, m.Header())
	assert.Equal(t, 1, first.headers)
	assert.Equal(t, 0, last.headers)

	assert.Error(t, m.Append(sampleRecord(0)))
	assert.Len(t, first.records, 1)
	assert.Empty(t, last.records)

	ok := MultiSink{first, last}
	require.NoError(t, ok.Append(sampleRecord(1)))
	assert.Len(t, last.records, 1)
}
