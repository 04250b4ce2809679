package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-directory/internal/directory"
)

func TestPageKeyDistinguishesParams(t *testing.T) {
	c := NewRedisPageCache(nil, "dir", 0)
	base := directory.Params{SortKey: directory.SortByName, SortDirection: directory.Asc, Page: 1, PageSize: 10}

	variants := []directory.Params{
		base,
		{SortKey: directory.SortBySalary, SortDirection: directory.Asc, Page: 1, PageSize: 10},
		{SortKey: directory.SortByName, SortDirection: directory.Desc, Page: 1, PageSize: 10},
		{SortKey: directory.SortByName, SortDirection: directory.Asc, Page: 2, PageSize: 10},
		{SortKey: directory.SortByName, SortDirection: directory.Asc, Page: 1, PageSize: 11},
		{Search: "a:b", SortKey: directory.SortByName, SortDirection: directory.Asc, Page: 1, PageSize: 10},
		{Search: "a", SortKey: directory.SortByName, SortDirection: directory.Asc, Page: 1, PageSize: 10},
	}
	seen := map[Key]bool{}
	for _, p := range variants {
		key := c.pageKey(0, p)
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}

	assert.NotEqual(t, c.pageKey(0, base), c.pageKey(1, base), "generation must be part of the key")
	assert.Equal(t, Key("dir:page:4:name:asc:1:10:"), c.pageKey(4, base))
}

func TestNewRedisPageCacheDefaults(t *testing.T) {
	c := NewRedisPageCache(nil, "", 0)
	assert.Equal(t, "employees:generation", c.generationKey())
	assert.Positive(t, c.ttl)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c PageCache = Noop{}

	_, key, hit, err := c.Get(ctx, directory.Params{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, key)
	assert.NoError(t, c.Set(ctx, key, directory.Page{}))
	assert.NoError(t, c.Invalidate(ctx))
}

func TestSetIgnoresZeroKey(t *testing.T) {
	c := NewRedisPageCache(nil, "dir", 0)
	assert.NoError(t, c.Set(context.Background(), "", directory.Page{}))
}
