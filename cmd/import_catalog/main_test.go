package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
		"books": [{"title": "Calculus", "author": "Stewart", "year": 2015, "textbook": true}],
		"periodicals": [{"title": "Nature", "issue": 7962, "year": 2023}]
	}`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"books": [{"author": "Nobody"}]}`), 0o644))

	cat, err := load(good)
	require.NoError(t, err)
	require.Len(t, cat.Books(), 1)
	assert.True(t, cat.Books()[0].IsTextbook)
	assert.Len(t, cat.Periodicals(), 1)

	_, err = load(bad)
	assert.ErrorContains(t, err, "has no title")

	_, err = load(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "open catalog")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "a long...", truncateString("a long title", 9))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
	assert.Equal(t, "Les Misé...", truncateString("Les Misérables", 11))
}
