package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/desktop-invoke/internal/action"
	"github.com/mj1618/desktop-invoke/internal/model"
	"github.com/mj1618/desktop-invoke/internal/platform"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is wrapped by every failed lookup.
	ErrNotFound = errors.New("no element found")
	// ErrAmbiguous is wrapped when a text query matches several elements.
	ErrAmbiguous = errors.New("ambiguous element query")
)

// Target is a resolved element together with the query that found it.
type Target struct {
	Query   Query
	Element model.Element
}

func (t *Target) String() string {
	var b strings.Builder
	b.WriteString(t.Element.Role)
	if label := firstNonEmpty(t.Element.Title, t.Element.Description, t.Element.Value); label != "" {
		fmt.Fprintf(&b, " %q", label)
	}
	fmt.Fprintf(&b, " (id=%d) in %s", t.Element.ID, t.Query.Scope)
	return b.String()
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// Resolver turns command records into Targets by reading the element tree.
type Resolver struct {
	Reader platform.Reader
	Cache  *Cache
	Log    logrus.FieldLogger
}

// New returns a Resolver caching trees for ttl.
func New(reader platform.Reader, ttl time.Duration, log logrus.FieldLogger) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{Reader: reader, Cache: NewCache(ttl), Log: log}
}

// Resolve reads the targeting keys of record and finds the element.
func (r *Resolver) Resolve(ctx context.Context, record map[string]any) (action.Target, error) {
	q, err := ParseQuery(record)
	if err != nil {
		return nil, err
	}
	t, err := r.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Find resolves q, reading through the cache.
func (r *Resolver) Find(ctx context.Context, q Query) (*Target, error) {
	return r.find(ctx, q, true)
}

// FindFresh resolves q against a tree read from the platform.
func (r *Resolver) FindFresh(ctx context.Context, q Query) (*Target, error) {
	return r.find(ctx, q, false)
}

// Refresh re-reads the element t points at. When its query no longer
// matches, the element with the same id and role is accepted instead.
func (r *Resolver) Refresh(ctx context.Context, t *Target) (*Target, error) {
	elements, err := r.read(ctx, t.Query.Scope, false)
	if err != nil {
		return nil, err
	}
	el, err := Select(elements, t.Query)
	if err == nil {
		return &Target{Query: t.Query, Element: *el}, nil
	}
	if errors.Is(err, ErrNotFound) {
		if same := model.FindByID(elements, t.Element.ID); same != nil && same.Role == t.Element.Role {
			return &Target{Query: t.Query, Element: *same}, nil
		}
	}
	return nil, err
}

// Invalidate drops cached trees that scope's writes may have changed.
func (r *Resolver) Invalidate(scope platform.Scope) {
	r.Cache.Invalidate(scope)
}

func (r *Resolver) find(ctx context.Context, q Query, cached bool) (*Target, error) {
	elements, err := r.read(ctx, q.Scope, cached)
	if err != nil {
		return nil, err
	}
	el, err := Select(elements, q)
	if err != nil {
		return nil, err
	}
	t := &Target{Query: q, Element: *el}
	r.Log.WithFields(logrus.Fields{"query": q.String(), "id": el.ID}).Debug("resolved element")
	return t, nil
}

func (r *Resolver) read(ctx context.Context, scope platform.Scope, cached bool) ([]model.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Reader == nil {
		return nil, fmt.Errorf("reader not available on this platform")
	}
	opts := platform.ReadOptions{Scope: scope}
	var (
		elements []model.Element
		err      error
	)
	if cached {
		elements, err = r.Cache.ReadElements(r.Reader, opts)
	} else {
		elements, err = r.Reader.ReadElements(opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read elements: %w", err)
	}
	return elements, nil
}

// Select finds the single element of elements that q names. Several text
// matches are narrowed by focus proximity, then by preferring interactive
// roles when q has no role filter.
func Select(elements []model.Element, q Query) (*model.Element, error) {
	search := elements
	if q.ScopeID > 0 {
		scopeEl := model.FindByID(elements, q.ScopeID)
		if scopeEl == nil {
			return nil, fmt.Errorf("%w for scope-id %d", ErrNotFound, q.ScopeID)
		}
		search = scopeEl.Children
	}

	roleSet := make(map[string]bool, len(q.Roles))
	for _, role := range q.Roles {
		roleSet[role] = true
	}

	switch {
	case q.ID > 0:
		el := model.FindByID(search, q.ID)
		if el == nil || (len(roleSet) > 0 && !roleSet[el.Role]) {
			return nil, fmt.Errorf("%w with id %d", ErrNotFound, q.ID)
		}
		return el, nil
	case q.Text == "":
		el := model.FindFocused(search)
		if el == nil {
			return nil, fmt.Errorf("%w with keyboard focus", ErrNotFound)
		}
		return el, nil
	}

	matches := collectLeafMatches(search, strings.ToLower(q.Text), roleSet, q.Exact)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w matching text %q", ErrNotFound, q.Text)
	}
	if len(matches) > 1 {
		matches = narrowByFocus(elements, matches)
	}
	if len(matches) > 1 && len(q.Roles) == 0 {
		matches = preferInteractive(matches)
	}
	if len(matches) > 1 {
		return nil, ambiguous(elements, q, matches)
	}
	return matches[0], nil
}
