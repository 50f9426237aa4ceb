package app

import (
	"context"
	"fmt"
	"log"

	"github.com/kyrias/bano/internal/config"
	"github.com/kyrias/bano/internal/feed"
	"github.com/kyrias/bano/internal/search"
	"github.com/kyrias/bano/internal/store"
)

// requests builds the searches for out. A single-language output searches
// once with its own code; a merged output searches once per listed code, in
// list order. Each code is used as both language and locale filter.
func requests(out config.Output) ([]search.Request, error) {
	var codes []string
	switch l := out.Languages.(type) {
	case config.SingleLanguage:
		codes = []string{l.Code}
	case config.MergedLanguages:
		codes = l.Codes()
	default:
		return nil, fmt.Errorf("output %s: unknown language mode %T", out.Short, out.Languages)
	}

	reqs := make([]search.Request, len(codes))
	for i, code := range codes {
		reqs[i] = search.Request{
			Query:  out.Query,
			Lang:   code,
			Locale: code,
			Count:  out.NumEntries,
		}
	}
	return reqs, nil
}

// Produce searches every language of out, appends the results to one feed in
// language order then provider order, and writes it to out.ArtifactPath().
func (a *App) Produce(ctx context.Context, out config.Output, token string) (store.OutputRecord, error) {
	reqs, err := requests(out)
	if err != nil {
		return store.OutputRecord{}, err
	}

	log.Printf("Generating %s feed (%s) from %d search(es)", out.Short, out.Long, len(reqs))

	builder := feed.New(out, a.now())
	langs := make([]string, 0, len(reqs))

	for _, req := range reqs {
		langs = append(langs, req.Lang)

		statuses, err := a.searcher.Search(ctx, out.URL, req, token)
		a.metrics.Search(req.Lang)
		if err != nil {
			return store.OutputRecord{}, fmt.Errorf("feed %s, lang %s: %w", out.Short, req.Lang, err)
		}
		log.Printf("Fetched %d statuses for %s/%s", len(statuses), out.Short, req.Lang)

		if a.cache != nil {
			if path, err := a.cache.SaveStatuses(out.Short, req.Lang, statuses); err != nil {
				log.Printf("Failed to cache statuses: %v", err)
			} else {
				log.Printf("Cached statuses to: %s", path)
			}
		}

		for _, status := range statuses {
			entry, err := feed.Format(status)
			if err != nil {
				return store.OutputRecord{}, fmt.Errorf("feed %s, lang %s: %w", out.Short, req.Lang, err)
			}
			if err := builder.Append(entry); err != nil {
				return store.OutputRecord{}, fmt.Errorf("feed %s, lang %s: %w", out.Short, req.Lang, err)
			}
		}
	}

	rec := store.OutputRecord{
		Short:     out.Short,
		Languages: langs,
		Entries:   builder.Len(),
		Path:      out.ArtifactPath(),
	}

	if a.dryRun {
		log.Printf("Dry run: would write %d entries to %s", rec.Entries, rec.Path)
		return rec, nil
	}

	if err := builder.Finalize(rec.Path); err != nil {
		return store.OutputRecord{}, fmt.Errorf("feed %s: %w", out.Short, err)
	}
	rec.WrittenAt = a.now()
	a.metrics.Entries(out.Short, rec.Entries)

	log.Printf("Feed saved to: %s (%d entries)", rec.Path, rec.Entries)
	return rec, nil
}
