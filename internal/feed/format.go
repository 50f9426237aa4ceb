package feed

import (
	"errors"
	"fmt"

	"github.com/kyrias/bano/internal/types"
)

// ErrMalformedStatus is returned for a status missing a field the entry needs
var ErrMalformedStatus = errors.New("malformed status")

// Permalink is the canonical URL of a post, used as the entry's identity
func Permalink(handle, id string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", handle, id)
}

// Format turns a search status into a feed entry. The date and text are
// passed through untouched.
func Format(s types.Status) (types.Entry, error) {
	if missing := missingField(s); missing != "" {
		return types.Entry{}, fmt.Errorf("%w: missing %s", ErrMalformedStatus, missing)
	}

	name, handle, id := *s.User.Name, *s.User.ScreenName, *s.IDStr
	return types.Entry{
		Title: fmt.Sprintf("%s  ::  @%s", name, handle),
		Date:  *s.CreatedAt,
		URL:   Permalink(handle, id),
		Text:  *s.Text,
	}, nil
}

func missingField(s types.Status) string {
	switch {
	case s.IDStr == nil:
		return "id_str"
	case s.CreatedAt == nil:
		return "created_at"
	case s.Text == nil:
		return "text"
	case s.User == nil:
		return "user"
	case s.User.Name == nil:
		return "user.name"
	case s.User.ScreenName == nil:
		return "user.screen_name"
	}
	return ""
}
