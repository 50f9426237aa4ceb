package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyrias/bano/internal/config"
	"github.com/kyrias/bano/internal/types"
)

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func testOutput(dir string) config.Output {
	return config.Output{
		Section:   "Lojban",
		Short:     "jbo",
		Long:      "Lojban",
		OutputDir: dir,
		Languages: config.SingleLanguage{Code: "jbo"},
	}
}

func testEntries() []types.Entry {
	return []types.Entry{
		{Title: "A  ::  @a", Date: "Tue Mar 05 10:00:00 +0000 2024", URL: "https://twitter.com/a/status/2", Text: "coi ro do"},
		{Title: "B  ::  @b", Date: "Mon Mar 04 10:00:00 +0000 2024", URL: "https://twitter.com/b/status/1", Text: "mi & do"},
		{Title: "C  ::  @c", Date: "Wed Mar 06 10:00:00 +0000 2024", URL: "https://twitter.com/c/status/3", Text: "co'o"},
	}
}

func TestBuilderKeepsAppendOrder(t *testing.T) {
	b := New(testOutput(t.TempDir()), fixedNow)
	for _, e := range testEntries() {
		require.NoError(t, b.Append(e))
	}
	assert.Equal(t, 3, b.Len())

	data, err := b.Bytes()
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(string(data))
	require.NoError(t, err)

	assert.Equal(t, "atom", parsed.FeedType)
	assert.Equal(t, "Lojban twitter feed in Lojban", parsed.Title)
	require.Len(t, parsed.Items, 3)

	// No re-sorting by date.
	for i, e := range testEntries() {
		item := parsed.Items[i]
		assert.Equal(t, e.Title, item.Title)
		assert.Equal(t, e.URL, item.GUID)
		assert.Equal(t, e.URL, item.Link)
		assert.Equal(t, e.Text, item.Content)
	}

	require.NotNil(t, parsed.Items[0].UpdatedParsed)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), parsed.Items[0].UpdatedParsed.UTC())

	published := []time.Time{
		time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
	}
	for i, want := range published {
		require.NotNil(t, parsed.Items[i].PublishedParsed)
		assert.Equal(t, want, parsed.Items[i].PublishedParsed.UTC())
	}
	assert.Contains(t, string(data), "<published>2024-03-05T10:00:00Z</published>")
}

func TestBuilderFeedMetadata(t *testing.T) {
	data, err := New(testOutput(t.TempDir()), fixedNow).Bytes()
	require.NoError(t, err)

	doc := string(data)
	assert.Contains(t, doc, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, doc, `xmlns="http://www.w3.org/2005/Atom"`)
	assert.Contains(t, doc, `xml:lang="jbo"`)
	assert.Contains(t, doc, `<id>jbo.atom.xml</id>`)
	assert.Contains(t, doc, `href="jbo.atom.xml"`)
	assert.Contains(t, doc, `<generator uri="https://github.com/kyrias/bano" version="0.0.0">bano</generator>`)
	assert.Contains(t, doc, `<subtitle>Twitter Atom feed in Lojban about the constructed language Lojban</subtitle>`)
	assert.Contains(t, doc, `<updated>2026-10-18T12:00:00Z</updated>`)
}

func TestBuilderDeterministic(t *testing.T) {
	render := func() []byte {
		b := New(testOutput(t.TempDir()), fixedNow)
		for _, e := range testEntries() {
			require.NoError(t, b.Append(e))
		}
		data, err := b.Bytes()
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, render(), render())
}

func TestBuilderRejectsBadDate(t *testing.T) {
	b := New(testOutput(t.TempDir()), fixedNow)
	err := b.Append(types.Entry{Title: "x", Date: "yesterday", URL: "https://twitter.com/x/status/1"})

	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Zero(t, b.Len())
}

func TestFinalizeOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "feeds")
	out := testOutput(dir)
	path := out.ArtifactPath()

	first := New(out, fixedNow)
	require.NoError(t, first.Append(testEntries()[0]))
	require.NoError(t, first.Finalize(path))

	second := New(out, fixedNow)
	require.NoError(t, second.Finalize(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	parsed, err := gofeed.NewParser().ParseString(string(data))
	require.NoError(t, err)
	assert.Empty(t, parsed.Items)

	leftovers, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, leftovers, 1, "temp files must not be left behind")
}
