package config

import (
	"path/filepath"
	"strings"
)

const (
	// DefaultTokenURL is the provider's token-issuance endpoint
	DefaultTokenURL = "https://api.twitter.com/oauth2/token"

	// DefaultSchedule is used by `bano watch` when the config sets none
	DefaultSchedule = "@hourly"

	defaultFeedTitle       = "Lojban twitter feed in %s"
	defaultFeedDescription = "Twitter Atom feed in %s about the constructed language Lojban"
)

// Config is one run's view of the persisted configuration.
// It is treated as a value: the run controller returns an updated copy
// instead of mutating the loaded one.
type Config struct {
	Defaults Defaults
	Outputs  []Output
}

// Defaults holds the global section of the config file
type Defaults struct {
	ConsumerKey    string
	ConsumerSecret string
	BearerToken    string
	TokenURL       string
	HistoryDB      string
	MetricsFile    string
	CacheDir       string
	Schedule       string
}

// Output describes one produced feed artifact
type Output struct {
	Section    string
	Short      string
	Long       string
	Query      string
	URL        string
	NumEntries int
	OutputDir  string
	Languages  Languages

	FeedTitle       string
	FeedDescription string
}

// WithBearerToken returns a copy of the config carrying tok as the cached token
func (c Config) WithBearerToken(tok string) Config {
	c.Defaults.BearerToken = tok
	return c
}

// Output returns the output whose short code is short
func (c Config) Output(short string) (Output, bool) {
	for _, o := range c.Outputs {
		if o.Short == short {
			return o, true
		}
	}
	return Output{}, false
}

// ArtifactPath is where the output's feed file is written
func (o Output) ArtifactPath() string {
	return filepath.Join(o.OutputDir, o.Short+".atom.xml")
}

// SelfLink is used as both the feed link and the feed id
func (o Output) SelfLink() string {
	return o.Short + ".atom.xml"
}

// Title renders the feed title for this output
func (o Output) Title() string {
	return render(o.FeedTitle, defaultFeedTitle, o.Long)
}

// Description renders the feed description for this output
func (o Output) Description() string {
	return render(o.FeedDescription, defaultFeedDescription, o.Long)
}

func render(tmpl, fallback, long string) string {
	if tmpl == "" {
		tmpl = fallback
	}
	// Only %s is substituted; anything else in the template is literal.
	return strings.ReplaceAll(tmpl, "%s", long)
}
