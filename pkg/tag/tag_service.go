package tag

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/cache"
	"Foodgram-Backend/internal/utils/logging"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	cacheKeyTags = "tags:all"
	cacheTTL     = 24 * time.Hour
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.Tag, error)
		GetTagByID(ctx context.Context, id uint) (domain.Tag, error)
		CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.Tag, error)
	}

	tagService struct {
		tagRepository TagRepository
		cache         cache.Cache
	}
)

func NewTagService(tagRepository TagRepository, c cache.Cache) TagService {
	if c == nil {
		c = cache.NewNoopCache()
	}
	return &tagService{
		tagRepository: tagRepository,
		cache:         c,
	}
}

func tagCacheKey(id uint) string {
	return fmt.Sprintf("tags:%d", id)
}

func ToTag(t *entities.Tag) domain.Tag {
	return domain.Tag{
		ID:    t.ID,
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.Tag, error) {
	var cached []domain.Tag
	if ok, err := s.cache.Get(ctx, cacheKeyTags, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		logging.Warn().Err(err).Msg("tag cache read failed")
	}

	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		result = append(result, ToTag(t))
	}

	if err := s.cache.Set(ctx, cacheKeyTags, result, cacheTTL); err != nil {
		logging.Warn().Err(err).Msg("tag cache write failed")
	}
	return result, nil
}

func (s *tagService) GetTagByID(ctx context.Context, id uint) (domain.Tag, error) {
	var cached domain.Tag
	if ok, err := s.cache.Get(ctx, tagCacheKey(id), &cached); err == nil && ok {
		return cached, nil
	}

	t, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Tag{}, domain.ErrTagNotFound
		}
		return domain.Tag{}, err
	}

	result := ToTag(t)
	if err := s.cache.Set(ctx, tagCacheKey(id), result, cacheTTL); err != nil {
		logging.Warn().Err(err).Uint("tag_id", id).Msg("tag cache write failed")
	}
	return result, nil
}

// CreateTag derives the slug from the name when the request has none.
func (s *tagService) CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.Tag, error) {
	name := strings.TrimSpace(req.Name)
	tagSlug := strings.TrimSpace(req.Slug)
	if tagSlug == "" {
		tagSlug = slug.Make(name)
	}
	if tagSlug == "" {
		return domain.Tag{}, domain.NewValidationError("slug", domain.MessageTagSlugEmpty)
	}

	verr := &domain.ValidationError{}
	if exists, err := s.tagRepository.ExistsByName(ctx, name); err != nil {
		return domain.Tag{}, err
	} else if exists {
		verr.Add("name", domain.MessageTagNameTaken)
	}
	if exists, err := s.tagRepository.ExistsBySlug(ctx, tagSlug); err != nil {
		return domain.Tag{}, err
	} else if exists {
		verr.Add("slug", domain.MessageTagSlugTaken)
	}
	if verr.HasErrors() {
		return domain.Tag{}, verr
	}

	t := &entities.Tag{
		Name:  name,
		Color: strings.ToUpper(req.Color),
		Slug:  tagSlug,
	}
	if err := s.tagRepository.CreateTag(ctx, t); err != nil {
		return domain.Tag{}, err
	}

	if err := s.cache.Delete(ctx, cacheKeyTags); err != nil {
		logging.Warn().Err(err).Msg("tag cache invalidation failed")
	}
	return ToTag(t), nil
}
