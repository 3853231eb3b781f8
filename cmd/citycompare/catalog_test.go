package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `city_1,city_2,population_1,population_2
Tokyo,Osaka,9000000,2700000
A,B,100,200
X,Y,50,50
P,Q,300,10
`

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { catalogSchedule = false })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogCommandPrintsAnswers(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "city.csv"), []byte(testCatalog), 0o644))

	out, err := execute(t, "catalog")
	require.NoError(t, err)

	assert.Contains(t, out, "correct_answer")
	assert.Regexp(t, `Tokyo\s+Osaka\s+9000000\s+2700000\s+city_1`, out)
	assert.Regexp(t, `X\s+Y\s+50\s+50\s+city_2`, out)
	assert.NotContains(t, out, "schedule")
}

func TestCatalogCommandSchedule(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	out, err := execute(t, "catalog", "--catalog", path, "--schedule", "--seed", "7")
	require.NoError(t, err)

	assert.Contains(t, out, "schedule (seed 7)")
	assert.Contains(t, out, "one_two")
	assert.Contains(t, out, "two_one")
}

func TestCatalogCommandMissingFile(t *testing.T) {
	chdirTemp(t)

	_, err := execute(t, "catalog", "--catalog", "nope.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}
