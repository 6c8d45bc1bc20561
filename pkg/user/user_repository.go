package user

import (
	"Foodgram-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uint) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		ExistsByEmail(ctx context.Context, email string) (bool, error)
		ExistsByUsername(ctx context.Context, username string) (bool, error)
		GetUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error)
		UpdatePassword(ctx context.Context, id uint, hashed string) error

		CreateFollow(ctx context.Context, follow *entities.Follow) error
		DeleteFollow(ctx context.Context, userID, authorID uint) (bool, error)
		IsFollowing(ctx context.Context, userID, authorID uint) (bool, error)
		GetFollowedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
		GetSubscriptions(ctx context.Context, userID uint, page, limit int) ([]*entities.User, int64, error)
		CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) GetUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hashed string) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", id).
		Update("password", hashed).Error
}

func (r *userRepository) CreateFollow(ctx context.Context, follow *entities.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

// DeleteFollow reports false when there was no such subscription.
func (r *userRepository) DeleteFollow(ctx context.Context, userID, authorID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&entities.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *userRepository) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) GetFollowedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool)
	if userID == 0 || len(authorIDs) == 0 {
		return followed, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).Model(&entities.Follow{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

// GetSubscriptions returns the authors followed by userID, newest follow first.
func (r *userRepository) GetSubscriptions(ctx context.Context, userID uint, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.Follow{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.id desc").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

func (r *userRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	if err := r.db.WithContext(ctx).Model(&entities.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// GetRecipesByAuthor returns the author's recipes, most recent first. A
// negative limit returns all of them.
func (r *userRepository) GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if limit == 0 {
		return recipes, nil
	}

	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date desc, id desc").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}
