package service

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/xxxsen/trailmark/internal/model"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
	"github.com/xxxsen/trailmark/internal/pkg/timeutil"
	"github.com/xxxsen/trailmark/internal/repo"
)

// TagRegistry maps tag names to stable ids. Names are matched exactly and
// shared by all users. Tags are never deleted, so a committed name->id pair
// stays valid forever and can be cached.
type TagRegistry struct {
	reads *repo.Repos
	cache *lru.Cache[string, string]
}

func NewTagRegistry(reads *repo.Repos, cacheSize int) (*TagRegistry, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &TagRegistry{reads: reads, cache: cache}, nil
}

// Resolve returns the id for name, creating the tag when missing.
func (t *TagRegistry) Resolve(ctx context.Context, name string) (string, error) {
	id, err := t.resolveIn(ctx, t.reads.Tags, name)
	if err != nil {
		return "", err
	}
	t.cache.Add(name, id)
	return id, nil
}

// resolveIn runs the get-or-create on the caller's executor. The result is
// not cached here; callers remember it once their transaction has committed.
func (t *TagRegistry) resolveIn(ctx context.Context, tags *repo.TagRepo, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", appErr.ErrInvalid
	}
	if id, ok := t.cache.Get(name); ok {
		return id, nil
	}
	return tags.GetOrCreate(ctx, &model.Tag{
		ID:    newID(),
		Name:  name,
		Ctime: timeutil.NowUnix(),
	})
}

func (t *TagRegistry) remember(resolved map[string]string) {
	for name, id := range resolved {
		t.cache.Add(name, id)
	}
}

func (t *TagRegistry) ListNames(ctx context.Context, userID string) ([]string, error) {
	return t.reads.Tags.ListNamesByUser(ctx, userID)
}
