package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mj1618/desktop-invoke/internal/model"
	"github.com/mj1618/desktop-invoke/internal/platform"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	trees [][]model.Element
	reads []platform.ReadOptions
	err   error
}

// ReadElements returns the next tree, repeating the last one.
func (r *fakeReader) ReadElements(opts platform.ReadOptions) ([]model.Element, error) {
	r.reads = append(r.reads, opts)
	if r.err != nil {
		return nil, r.err
	}
	i := min(len(r.reads), len(r.trees)) - 1
	return r.trees[i], nil
}

func newTestResolver(reader platform.Reader, ttl time.Duration) *Resolver {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	return New(reader, ttl, log)
}

func TestResolve_ByText(t *testing.T) {
	reader := &fakeReader{trees: [][]model.Element{buildMailTree()}}
	r := newTestResolver(reader, 0)

	target, err := r.Resolve(context.Background(), map[string]any{"app": "Mail", "text": "subject"})
	require.NoError(t, err)
	got := target.(*Target)
	assert.Equal(t, 7, got.Element.ID)
	assert.Equal(t, `input "Subject" (id=7) in app="Mail"`, got.String())
	assert.Equal(t, platform.Scope{App: "Mail"}, reader.reads[0].Scope)
}

func TestResolve_ByID(t *testing.T) {
	r := newTestResolver(&fakeReader{trees: [][]model.Element{buildMailTree()}}, 0)

	target, err := r.Resolve(context.Background(), map[string]any{"id": 6})
	require.NoError(t, err)
	assert.Equal(t, "To", target.(*Target).Element.Description)

	_, err = r.Resolve(context.Background(), map[string]any{"id": 6, "roles": "btn"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_Focused(t *testing.T) {
	r := newTestResolver(&fakeReader{trees: [][]model.Element{buildMailTree()}}, 0)
	target, err := r.Resolve(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 7, target.(*Target).Element.ID)

	r = newTestResolver(&fakeReader{trees: [][]model.Element{{{ID: 1, Role: "btn"}}}}, 0)
	_, err = r.Resolve(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_ScopeID(t *testing.T) {
	r := newTestResolver(&fakeReader{trees: [][]model.Element{buildMailTree()}}, 0)

	target, err := r.Resolve(context.Background(), map[string]any{"text": "subject", "scope-id": 2, "exact": false})
	require.Error(t, err, "two rows match inside the inbox and neither is near focus")
	assert.ErrorIs(t, err, ErrAmbiguous)
	assert.Nil(t, target)

	_, err = r.Resolve(context.Background(), map[string]any{"text": "subject", "scope-id": 99})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_NoMatch(t *testing.T) {
	r := newTestResolver(&fakeReader{trees: [][]model.Element{buildMailTree()}}, 0)
	target, err := r.Resolve(context.Background(), map[string]any{"text": "Archive"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, `no element found matching text "Archive"`)
	assert.Nil(t, target)
}

func TestResolve_Errors(t *testing.T) {
	readErr := errors.New("accessibility permission denied")
	r := newTestResolver(&fakeReader{err: readErr}, 0)
	_, err := r.Resolve(context.Background(), map[string]any{"text": "x"})
	assert.ErrorIs(t, err, readErr)

	_, err = r.Resolve(context.Background(), map[string]any{"text": 5})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Resolve(ctx, map[string]any{"text": "x"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = New(nil, 0, nil).Resolve(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestResolver_CacheAndFresh(t *testing.T) {
	reader := &fakeReader{trees: [][]model.Element{buildMailTree()}}
	r := newTestResolver(reader, time.Minute)
	q := Query{Text: "To", Exact: true}

	_, err := r.Find(context.Background(), q)
	require.NoError(t, err)
	_, err = r.Find(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, reader.reads, 1)

	_, err = r.FindFresh(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, reader.reads, 2)

	r.Invalidate(platform.Scope{})
	_, err = r.Find(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, reader.reads, 3)
}

func TestResolver_Refresh(t *testing.T) {
	before := []model.Element{{ID: 1, Role: "input", Value: "draft"}}
	after := []model.Element{{ID: 1, Role: "input", Value: "final"}}
	reader := &fakeReader{trees: [][]model.Element{before, after}}
	r := newTestResolver(reader, 0)

	target, err := r.Find(context.Background(), Query{Text: "draft"})
	require.NoError(t, err)

	fresh, err := r.Refresh(context.Background(), target)
	require.NoError(t, err, "falls back to the same id and role")
	assert.Equal(t, "final", fresh.Element.Value)
}

func TestResolver_RefreshGone(t *testing.T) {
	before := []model.Element{{ID: 1, Role: "input", Value: "draft"}}
	after := []model.Element{{ID: 1, Role: "btn", Title: "Close"}}
	r := newTestResolver(&fakeReader{trees: [][]model.Element{before, after}}, 0)

	target, err := r.Find(context.Background(), Query{Text: "draft"})
	require.NoError(t, err)
	_, err = r.Refresh(context.Background(), target)
	assert.ErrorIs(t, err, ErrNotFound)
}
