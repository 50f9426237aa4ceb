package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/feeds"

	"github.com/kyrias/bano/internal/config"
	"github.com/kyrias/bano/internal/types"
)

// ErrInvalidDate is returned when an entry's date is in no known layout
var ErrInvalidDate = errors.New("unparseable entry date")

// dateLayouts are tried in order. The first is the search API's created_at format.
var dateLayouts = []string{
	time.RubyDate,
	time.RFC3339,
	time.RFC1123Z,
}

// Generator identifies the program in the feed's <generator> element
type Generator struct {
	Name    string
	Version string
	URI     string
}

// DefaultGenerator is written into every feed
var DefaultGenerator = Generator{
	Name:    "bano",
	Version: "0.0.0",
	URI:     "https://github.com/kyrias/bano",
}

// Builder accumulates entries for one output and serializes them as Atom.
// Entries keep the order they were appended in.
type Builder struct {
	feed      *feeds.Feed
	published []time.Time
	lang      string
	generator Generator
}

// New creates a builder for out. now becomes the feed's updated time.
func New(out config.Output, now time.Time) *Builder {
	return &Builder{
		feed: &feeds.Feed{
			Title:       out.Title(),
			Description: out.Description(),
			Link:        &feeds.Link{Href: out.SelfLink(), Rel: "self"},
			Id:          out.SelfLink(),
			Updated:     now.UTC(),
		},
		lang:      out.Short,
		generator: DefaultGenerator,
	}
}

// Append adds one entry at the end of the feed
func (b *Builder) Append(e types.Entry) error {
	published, err := parseDate(e.Date)
	if err != nil {
		return fmt.Errorf("entry %s: %w", e.URL, err)
	}

	b.feed.Add(&feeds.Item{
		Title:   e.Title,
		Link:    &feeds.Link{Href: e.URL},
		Id:      e.URL,
		Created: published,
		Updated: published,
		Content: e.Text,
	})
	b.published = append(b.published, published)
	return nil
}

// Len returns the number of entries appended so far
func (b *Builder) Len() int {
	return len(b.feed.Items)
}

// atomDocument adds the feed-level attributes gorilla/feeds does not model
type atomDocument struct {
	*feeds.AtomFeed
	Lang      string         `xml:"xml:lang,attr,omitempty"`
	Generator *atomGenerator `xml:"generator,omitempty"`
}

type atomGenerator struct {
	URI     string `xml:"uri,attr,omitempty"`
	Version string `xml:"version,attr,omitempty"`
	Name    string `xml:",chardata"`
}

// Bytes renders the feed as an Atom document
func (b *Builder) Bytes() ([]byte, error) {
	doc := atomDocument{
		AtomFeed: (&feeds.Atom{Feed: b.feed}).AtomFeed(),
		Lang:     b.lang,
		Generator: &atomGenerator{
			URI:     b.generator.URI,
			Version: b.generator.Version,
			Name:    b.generator.Name,
		},
	}

	// gorilla/feeds only renders <updated> for entries
	for i, entry := range doc.Entries {
		entry.Published = b.published[i].Format(time.RFC3339)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode atom feed: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// Finalize writes the feed to path, replacing any existing file. The file is
// written next to its destination and renamed into place.
func (b *Builder) Finalize(path string) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write feed: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close feed: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move feed into place: %w", err)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
