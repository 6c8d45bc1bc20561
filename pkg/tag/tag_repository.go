package tag

import (
	"Foodgram-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	TagRepository interface {
		GetTags(ctx context.Context) ([]*entities.Tag, error)
		GetTagByID(ctx context.Context, id uint) (*entities.Tag, error)
		GetTagsByIDs(ctx context.Context, ids []uint) ([]*entities.Tag, error)
		ExistsByName(ctx context.Context, name string) (bool, error)
		ExistsBySlug(ctx context.Context, slug string) (bool, error)
		CreateTag(ctx context.Context, tag *entities.Tag) error
	}

	tagRepository struct {
		db *gorm.DB
	}
)

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).Order("id asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetTagByID(ctx context.Context, id uint) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetTagsByIDs(ctx context.Context, ids []uint) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Tag{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tagRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Tag{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tagRepository) CreateTag(ctx context.Context, tag *entities.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}
