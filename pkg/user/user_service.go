package user

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/metrics"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/jwt"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// AllRecipes disables the recipes_limit cap on subscription entries.
const AllRecipes = -1

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetUsers(ctx context.Context, viewerID uint, page, limit int) (domain.UserListResponse, error)
		GetUserByID(ctx context.Context, viewerID, id uint) (domain.User, error)
		Me(ctx context.Context, userID uint) (domain.User, error)
		SetPassword(ctx context.Context, userID uint, req domain.SetPasswordRequest) error
		Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (domain.Subscription, error)
		Unsubscribe(ctx context.Context, userID, authorID uint) error
		GetSubscriptions(ctx context.Context, userID uint, page, limit, recipesLimit int) (domain.SubscriptionListResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func ToUser(u *entities.User, isSubscribed bool) domain.User {
	return domain.User{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func toRecipeShort(r *entities.Recipe) domain.RecipeShort {
	return domain.RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// takenFields reports which of email and username already belong to a user.
func (s *userService) takenFields(ctx context.Context, email, username string) (*domain.ValidationError, error) {
	verr := &domain.ValidationError{}
	emailTaken, err := s.userRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		verr.Add("email", domain.MessageEmailTaken)
	}
	usernameTaken, err := s.userRepository.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		verr.Add("username", domain.MessageUsernameTaken)
	}
	return verr, nil
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	verr, err := s.takenFields(ctx, email, username)
	if err != nil {
		return domain.User{}, err
	}
	if verr.HasErrors() {
		return domain.User{}, verr
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	u := &entities.User{
		Email:     email,
		Username:  username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hashed,
		Role:      domain.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, u); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, err
		}
		// lost a race with a concurrent registration
		verr, lookupErr := s.takenFields(ctx, email, username)
		if lookupErr != nil {
			return domain.User{}, lookupErr
		}
		if !verr.HasErrors() {
			verr.Add("email", domain.MessageEmailTaken)
		}
		return domain.User{}, verr
	}
	return ToUser(u, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	u, err := s.userRepository.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}
	if !utils.CheckPassword(u.Password, req.Password) {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(u.ID, u.Role)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) GetUsers(ctx context.Context, viewerID uint, page, limit int) (domain.UserListResponse, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	followed, err := s.userRepository.GetFollowedAuthorIDs(ctx, viewerID, ids)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	result := make([]domain.User, 0, len(users))
	for _, u := range users {
		result = append(result, ToUser(u, followed[u.ID]))
	}
	return domain.UserListResponse{
		Users:      result,
		Pagination: domain.NewPagination(page, limit, count),
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, viewerID, id uint) (domain.User, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	subscribed := false
	if viewerID != 0 {
		subscribed, err = s.userRepository.IsFollowing(ctx, viewerID, id)
		if err != nil {
			return domain.User{}, err
		}
	}
	return ToUser(u, subscribed), nil
}

func (s *userService) Me(ctx context.Context, userID uint) (domain.User, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	return ToUser(u, false), nil
}

func (s *userService) SetPassword(ctx context.Context, userID uint, req domain.SetPasswordRequest) error {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(u.Password, req.CurrentPassword) {
		return domain.NewValidationError("current_password", domain.MessageWrongPassword)
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, userID, hashed)
}

func (s *userService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (domain.Subscription, error) {
	author, err := s.getUser(ctx, authorID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if userID == authorID {
		return domain.Subscription{}, domain.ErrSelfFollow
	}

	following, err := s.userRepository.IsFollowing(ctx, userID, authorID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if following {
		return domain.Subscription{}, domain.ErrAlreadyFollowing
	}

	if err := s.userRepository.CreateFollow(ctx, &entities.Follow{UserID: userID, AuthorID: authorID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Subscription{}, domain.ErrAlreadyFollowing
		}
		return domain.Subscription{}, err
	}
	metrics.RelationChanges.WithLabelValues(metrics.RelationFollow, metrics.ActionAdd).Inc()

	subs, err := s.buildSubscriptions(ctx, []*entities.User{author}, recipesLimit)
	if err != nil {
		return domain.Subscription{}, err
	}
	return subs[0], nil
}

func (s *userService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.getUser(ctx, authorID); err != nil {
		return err
	}

	deleted, err := s.userRepository.DeleteFollow(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFollowing
	}
	metrics.RelationChanges.WithLabelValues(metrics.RelationFollow, metrics.ActionRemove).Inc()
	return nil
}

func (s *userService) GetSubscriptions(ctx context.Context, userID uint, page, limit, recipesLimit int) (domain.SubscriptionListResponse, error) {
	authors, count, err := s.userRepository.GetSubscriptions(ctx, userID, page, limit)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}

	subs, err := s.buildSubscriptions(ctx, authors, recipesLimit)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}
	return domain.SubscriptionListResponse{
		Subscriptions: subs,
		Pagination:    domain.NewPagination(page, limit, count),
	}, nil
}

// buildSubscriptions assembles entries for authors the caller follows.
func (s *userService) buildSubscriptions(ctx context.Context, authors []*entities.User, recipesLimit int) ([]domain.Subscription, error) {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.userRepository.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	subs := make([]domain.Subscription, 0, len(authors))
	for _, a := range authors {
		recipes, err := s.userRepository.GetRecipesByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}

		short := make([]domain.RecipeShort, 0, len(recipes))
		for _, r := range recipes {
			short = append(short, toRecipeShort(r))
		}
		subs = append(subs, domain.Subscription{
			User:         ToUser(a, true),
			Recipes:      short,
			RecipesCount: counts[a.ID],
		})
	}
	return subs, nil
}

func (s *userService) getUser(ctx context.Context, id uint) (*entities.User, error) {
	u, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
