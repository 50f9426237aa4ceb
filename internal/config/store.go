package config

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/ini.v1"
)

// ErrInvalid is wrapped by every validation failure returned from Load
var ErrInvalid = errors.New("invalid configuration")

const (
	keyConsumerKey    = "consumer_key"
	keyConsumerSecret = "consumer_secret"
	keyBearerToken    = "bearer_token"
	keyLangs          = "langs"
)

// Store reads and writes the INI config file. Output sections inherit any
// key they do not set from the DEFAULT section.
type Store struct {
	path string
	file *ini.File

	keyOverride    string
	secretOverride string
}

// Option configures a Store
type Option func(*Store)

// WithCredentialOverride replaces the consumer key/secret read from the file.
// Overrides are kept in memory and never written back by Save.
func WithCredentialOverride(key, secret string) Option {
	return func(s *Store) {
		s.keyOverride = key
		s.secretOverride = secret
	}
}

// Open parses the config file at path
func Open(path string, opts ...Option) (*Store, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		// Search queries routinely contain '#'.
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	s := &Store{path: path, file: f}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the file the store was opened from
func (s *Store) Path() string {
	return s.path
}

// Load builds a Config from the parsed file. Sections keep their file order.
func (s *Store) Load() (Config, error) {
	def := s.file.Section(ini.DefaultSection)

	cfg := Config{
		Defaults: Defaults{
			ConsumerKey:    raw(def, keyConsumerKey),
			ConsumerSecret: raw(def, keyConsumerSecret),
			BearerToken:    raw(def, keyBearerToken),
			TokenURL:       raw(def, "token_url"),
			HistoryDB:      raw(def, "history_db"),
			MetricsFile:    raw(def, "metrics_file"),
			CacheDir:       raw(def, "cache_dir"),
			Schedule:       raw(def, "schedule"),
		},
	}
	if s.keyOverride != "" {
		cfg.Defaults.ConsumerKey = s.keyOverride
	}
	if s.secretOverride != "" {
		cfg.Defaults.ConsumerSecret = s.secretOverride
	}
	if cfg.Defaults.TokenURL == "" {
		cfg.Defaults.TokenURL = DefaultTokenURL
	}
	if cfg.Defaults.Schedule == "" {
		cfg.Defaults.Schedule = DefaultSchedule
	}

	if cfg.Defaults.ConsumerKey == "" || cfg.Defaults.ConsumerSecret == "" {
		if cfg.Defaults.BearerToken == "" {
			return Config{}, fmt.Errorf("%w: %s and %s are required when no %s is cached",
				ErrInvalid, keyConsumerKey, keyConsumerSecret, keyBearerToken)
		}
	}

	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		out, err := parseOutput(sec, def)
		if err != nil {
			return Config{}, err
		}
		cfg.Outputs = append(cfg.Outputs, out)
	}

	return cfg, nil
}

// Save writes cfg's bearer token back to the file. Nothing else is changed,
// so comments, ordering and unrelated keys survive a round trip.
func (s *Store) Save(cfg Config) error {
	def := s.file.Section(ini.DefaultSection)
	if cfg.Defaults.BearerToken == "" {
		def.DeleteKey(keyBearerToken)
	} else {
		def.Key(keyBearerToken).SetValue(cfg.Defaults.BearerToken)
	}

	ini.DefaultHeader = true
	if err := s.file.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}
	return nil
}

func parseOutput(sec, def *ini.Section) (Output, error) {
	name := sec.Name()

	required := func(key string) (string, error) {
		v := inherited(sec, def, key)
		if v == "" {
			return "", fmt.Errorf("%w: section [%s] is missing %q", ErrInvalid, name, key)
		}
		return v, nil
	}

	out := Output{
		Section:         name,
		FeedTitle:       inherited(sec, def, "feed_title"),
		FeedDescription: inherited(sec, def, "feed_description"),
	}

	var err error
	if out.Short, err = required("short"); err != nil {
		return Output{}, err
	}
	if out.Long, err = required("long"); err != nil {
		return Output{}, err
	}
	if out.Query, err = required("twitter_query"); err != nil {
		return Output{}, err
	}
	if out.URL, err = required("url"); err != nil {
		return Output{}, err
	}
	if out.OutputDir, err = required("output_dir"); err != nil {
		return Output{}, err
	}

	n, err := required("num_entries")
	if err != nil {
		return Output{}, err
	}
	out.NumEntries, err = strconv.Atoi(n)
	if err != nil || out.NumEntries <= 0 {
		return Output{}, fmt.Errorf("%w: section [%s] has non-positive or non-numeric num_entries %q", ErrInvalid, name, n)
	}

	// langs is only honoured on the output section itself. Inheriting it from
	// DEFAULT would silently turn every output into a merged feed.
	if sec.HasKey(keyLangs) {
		codes := parseLangs(sec.Key(keyLangs).Value())
		if len(codes) == 0 {
			return Output{}, fmt.Errorf("%w: section [%s] has an empty langs list", ErrInvalid, name)
		}
		out.Languages = MergedLanguages{List: codes}
	} else {
		out.Languages = SingleLanguage{Code: out.Short}
	}

	return out, nil
}

func raw(sec *ini.Section, key string) string {
	if !sec.HasKey(key) {
		return ""
	}
	return sec.Key(key).Value()
}

func inherited(sec, def *ini.Section, key string) string {
	if sec.HasKey(key) {
		return sec.Key(key).Value()
	}
	return raw(def, key)
}
