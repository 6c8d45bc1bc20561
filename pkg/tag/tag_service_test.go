package tag

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	data map[string][]byte
	hits int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	m.hits++
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestGetTagsUsesCache(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTag(t, db, "breakfast")
	c := newMemoryCache()
	svc := NewTagService(NewTagRepository(db), c)
	ctx := context.Background()

	tags, err := svc.GetTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 0, c.hits)

	// a row added behind the service's back stays invisible until invalidation
	testutil.CreateTag(t, db, "lunch")
	tags, err = svc.GetTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
	assert.Equal(t, 1, c.hits)
}

func TestCreateTagInvalidatesListAndGeneratesSlug(t *testing.T) {
	db := testutil.NewDB(t)
	c := newMemoryCache()
	svc := NewTagService(NewTagRepository(db), c)
	ctx := context.Background()

	_, err := svc.GetTags(ctx)
	require.NoError(t, err)

	created, err := svc.CreateTag(ctx, domain.CreateTagRequest{Name: "Late Dinner", Color: "#00ff00"})
	require.NoError(t, err)
	assert.Equal(t, "late-dinner", created.Slug)
	assert.Equal(t, "#00FF00", created.Color)

	tags, err := svc.GetTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestCreateTagRejectsDuplicates(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTag(t, db, "soup")
	svc := NewTagService(NewTagRepository(db), nil)

	_, err := svc.CreateTag(context.Background(), domain.CreateTagRequest{Name: "soup", Color: "#fff", Slug: "soup"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "slug")
}

func TestCreateTagRejectsNameWithoutSlug(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTagService(NewTagRepository(db), nil)

	_, err := svc.CreateTag(context.Background(), domain.CreateTagRequest{Name: "!!!", Color: "#fff"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{domain.MessageTagSlugEmpty}, verr.Fields["slug"])

	var count int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetTagByIDNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTagService(NewTagRepository(db), nil)

	_, err := svc.GetTagByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}
