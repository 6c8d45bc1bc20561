package user

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/pkg/jwt"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	jwtService, err := jwt.NewJWTServiceWithSecret("secret")
	require.NoError(t, err)
	return NewUserService(NewUserRepository(db), jwtService), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, domain.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Ann",
		LastName:  "Cook",
		Password:  "supersecret",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.False(t, u.IsSubscribed)

	res, err := svc.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AuthToken)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterReportsTakenFields(t *testing.T) {
	svc, db := newService(t)
	testutil.CreateUser(t, db, "cook")

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Ann",
		LastName:  "Cook",
		Password:  "supersecret",
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "username")
}

func TestSetPassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, domain.RegisterRequest{
		Email: "a@example.com", Username: "a", FirstName: "A", LastName: "A", Password: "oldpassword",
	})
	require.NoError(t, err)

	err = svc.SetPassword(ctx, u.ID, domain.SetPasswordRequest{CurrentPassword: "bad", NewPassword: "newpassword"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "current_password")

	require.NoError(t, svc.SetPassword(ctx, u.ID, domain.SetPasswordRequest{CurrentPassword: "oldpassword", NewPassword: "newpassword"}))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "a@example.com", Password: "newpassword"})
	assert.NoError(t, err)
}

func TestSubscribeRules(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")

	_, err := svc.Subscribe(ctx, reader.ID, reader.ID, AllRecipes)
	assert.ErrorIs(t, err, domain.ErrSelfFollow)

	_, err = svc.Subscribe(ctx, reader.ID, author.ID+100, AllRecipes)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	sub, err := svc.Subscribe(ctx, reader.ID, author.ID, AllRecipes)
	require.NoError(t, err)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, author.ID, sub.ID)

	_, err = svc.Subscribe(ctx, reader.ID, author.ID, AllRecipes)
	assert.ErrorIs(t, err, domain.ErrAlreadyFollowing)

	got, err := svc.GetUserByID(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSubscribed)

	require.NoError(t, svc.Unsubscribe(ctx, reader.ID, author.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, reader.ID, author.ID), domain.ErrNotFollowing)

	var count int64
	require.NoError(t, db.Model(&entities.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetSubscriptionsCapsRecipes(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	reader := testutil.CreateUser(t, db, "reader")
	first := testutil.CreateUser(t, db, "first")
	second := testutil.CreateUser(t, db, "second")

	var recipes []*entities.Recipe
	for i := 0; i < 3; i++ {
		recipes = append(recipes, testutil.CreateRecipe(t, db, first, fmt.Sprintf("dish-%d", i), nil))
	}

	_, err := svc.Subscribe(ctx, reader.ID, first.ID, AllRecipes)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, reader.ID, second.ID, AllRecipes)
	require.NoError(t, err)

	tests := []struct {
		name         string
		recipesLimit int
		wantRecipes  int
	}{
		{"all", AllRecipes, 3},
		{"capped", 2, 2},
		{"zero", 0, 0},
		{"above total", 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.GetSubscriptions(ctx, reader.ID, 1, domain.DefaultPageSize, tt.recipesLimit)
			require.NoError(t, err)
			require.Len(t, res.Subscriptions, 2)

			// newest follow first
			assert.Equal(t, second.ID, res.Subscriptions[0].ID)
			assert.Equal(t, int64(0), res.Subscriptions[0].RecipesCount)

			entry := res.Subscriptions[1]
			assert.Equal(t, first.ID, entry.ID)
			assert.Equal(t, int64(3), entry.RecipesCount)
			assert.Len(t, entry.Recipes, tt.wantRecipes)
			if tt.wantRecipes > 0 {
				assert.Equal(t, recipes[2].ID, entry.Recipes[0].ID)
			}
		})
	}
}

func TestGetUsersMarksSubscriptions(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")
	testutil.CreateUser(t, db, "other")

	_, err := svc.Subscribe(ctx, reader.ID, author.ID, AllRecipes)
	require.NoError(t, err)

	res, err := svc.GetUsers(ctx, reader.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, res.Users, 2)
	assert.Equal(t, int64(3), res.Pagination.Total)
	assert.Equal(t, int64(2), res.Pagination.TotalPages)
	assert.False(t, res.Users[0].IsSubscribed)
	assert.True(t, res.Users[1].IsSubscribed)

	anon, err := svc.GetUsers(ctx, 0, 1, 10)
	require.NoError(t, err)
	for _, u := range anon.Users {
		assert.False(t, u.IsSubscribed)
	}
}

// staleRepository answers existence checks as if the row were not there
// yet, the way a concurrent request sees it before the other insert commits.
type staleRepository struct {
	UserRepository
	staleExists int
}

func (r *staleRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.staleExists > 0 {
		r.staleExists--
		return false, nil
	}
	return r.UserRepository.ExistsByEmail(ctx, email)
}

func (r *staleRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if r.staleExists > 0 {
		r.staleExists--
		return false, nil
	}
	return r.UserRepository.ExistsByUsername(ctx, username)
}

func (r *staleRepository) IsFollowing(context.Context, uint, uint) (bool, error) {
	return false, nil
}

func newStaleService(t *testing.T) (UserService, *staleRepository, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	jwtService, err := jwt.NewJWTServiceWithSecret("secret")
	require.NoError(t, err)
	repo := &staleRepository{UserRepository: NewUserRepository(db)}
	return NewUserService(repo, jwtService), repo, db
}

func TestRegisterDuplicateKeyReportsTakenField(t *testing.T) {
	svc, repo, db := newStaleService(t)
	testutil.CreateUser(t, db, "cook")
	repo.staleExists = 2

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     "other@example.com",
		Username:  "cook",
		FirstName: "Ann",
		LastName:  "Cook",
		Password:  "supersecret",
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.NotContains(t, verr.Fields, "email")
}

func TestSubscribeDuplicateKeyIsAlreadyFollowing(t *testing.T) {
	svc, _, db := newStaleService(t)
	ctx := context.Background()
	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")

	_, err := svc.Subscribe(ctx, reader.ID, author.ID, AllRecipes)
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, reader.ID, author.ID, AllRecipes)
	assert.ErrorIs(t, err, domain.ErrAlreadyFollowing)
}
