package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/metrics"
	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/internal/utils/mailing"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	imageFolder         = "recipes"
	shoppingListSubject = "Foodgram shopping list"
	shoppingListBody    = "Your shopping list is attached."
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, userID uint, filter domain.RecipeFilter) (domain.RecipeListResponse, error)
		GetRecipeDetail(ctx context.Context, userID, recipeID uint) (domain.Recipe, error)
		CreateRecipe(ctx context.Context, userID uint, req domain.RecipeRequest) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, userID, recipeID uint, req domain.RecipeRequest) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, userID, recipeID uint) error

		AddFavorite(ctx context.Context, userID, recipeID uint) (domain.RecipeShort, error)
		RemoveFavorite(ctx context.Context, userID, recipeID uint) error
		AddToShoppingCart(ctx context.Context, userID, recipeID uint) (domain.RecipeShort, error)
		RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error

		DownloadShoppingList(ctx context.Context, userID uint) (string, error)
		SendShoppingList(ctx context.Context, userID uint) error
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		ingredientRepository ingredient.IngredientRepository
		tagRepository        tag.TagRepository
		userRepository       user.UserRepository
		s3                   storage.AwsS3
		mailer               mailing.Mailer
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	ingredientRepository ingredient.IngredientRepository,
	tagRepository tag.TagRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
	mailer mailing.Mailer,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		ingredientRepository: ingredientRepository,
		tagRepository:        tagRepository,
		userRepository:       userRepository,
		s3:                   s3,
		mailer:               mailer,
	}
}

func ToRecipeShort(r *entities.Recipe) domain.RecipeShort {
	return domain.RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func toRecipe(r *entities.Recipe, authorSubscribed, favorited, inCart bool) domain.Recipe {
	tags := make([]domain.Tag, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, tag.ToTag(t))
	}

	ingredients := make([]domain.RecipeIngredient, 0, len(r.RecipeIngredients))
	for _, ri := range r.RecipeIngredients {
		item := domain.RecipeIngredient{ID: ri.IngredientID, Amount: ri.Amount}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	var author domain.User
	if r.Author != nil {
		author = user.ToUser(r.Author, authorSubscribed)
	}

	return domain.Recipe{
		ID:               r.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, userID uint, filter domain.RecipeFilter) (domain.RecipeListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = domain.DefaultPageSize
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, userID)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.recipeRepository.GetFavoritedIDs(ctx, userID, recipeIDs)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}
	inCart, err := s.recipeRepository.GetShoppingCartIDs(ctx, userID, recipeIDs)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}
	followed, err := s.userRepository.GetFollowedAuthorIDs(ctx, userID, authorIDs)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	result := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		result = append(result, toRecipe(r, followed[r.AuthorID], favorited[r.ID], inCart[r.ID]))
	}
	return domain.RecipeListResponse{
		Recipes:    result,
		Pagination: domain.NewPagination(filter.Page, filter.Limit, count),
	}, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, userID, recipeID uint) (domain.Recipe, error) {
	r, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}

	var subscribed, favorited, inCart bool
	if userID != 0 {
		if subscribed, err = s.userRepository.IsFollowing(ctx, userID, r.AuthorID); err != nil {
			return domain.Recipe{}, err
		}
		if favorited, err = s.recipeRepository.IsFavorited(ctx, userID, r.ID); err != nil {
			return domain.Recipe{}, err
		}
		if inCart, err = s.recipeRepository.IsInShoppingCart(ctx, userID, r.ID); err != nil {
			return domain.Recipe{}, err
		}
	}
	return toRecipe(r, subscribed, favorited, inCart), nil
}

// validateRelations checks the ingredient and tag lists after struct
// validation has passed. The first failing rule wins.
func (s *recipeService) validateRelations(ctx context.Context, req domain.RecipeRequest) error {
	if len(req.Ingredients) == 0 {
		return domain.NewValidationError("ingredients", domain.MessageIngredientsRequired)
	}
	if len(req.Tags) == 0 {
		return domain.NewValidationError("tags", domain.MessageTagsRequired)
	}

	ingredientIDs := make([]uint, 0, len(req.Ingredients))
	seen := make(map[uint]struct{}, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if _, ok := seen[item.ID]; ok {
			return domain.NewValidationError("ingredients", domain.MessageDuplicateIngredients)
		}
		seen[item.ID] = struct{}{}
		ingredientIDs = append(ingredientIDs, item.ID)
	}

	seenTags := make(map[uint]struct{}, len(req.Tags))
	for _, id := range req.Tags {
		if _, ok := seenTags[id]; ok {
			return domain.NewValidationError("tags", domain.MessageDuplicateTags)
		}
		seenTags[id] = struct{}{}
	}

	found, err := s.ingredientRepository.CountExisting(ctx, ingredientIDs)
	if err != nil {
		return err
	}
	if found != int64(len(ingredientIDs)) {
		return domain.NewValidationError("ingredients", domain.MessageIngredientNotFound)
	}

	tags, err := s.tagRepository.GetTagsByIDs(ctx, req.Tags)
	if err != nil {
		return err
	}
	if len(tags) != len(req.Tags) {
		return domain.NewValidationError("tags", domain.MessageTagNotFound)
	}
	return nil
}

// uploadImage stores the base64 payload and returns its public link.
func (s *recipeService) uploadImage(data string) (string, error) {
	raw, err := storage.DecodeBase64Image(data)
	if err != nil {
		return "", domain.NewValidationError("image", domain.MessageInvalidImage)
	}

	key, err := s.s3.UploadFile(uuid.NewString(), raw, imageFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return "", domain.NewValidationError("image", domain.MessageInvalidImage)
		}
		return "", err
	}
	return s.s3.GetPublicLinkKey(key), nil
}

func (s *recipeService) deleteImage(link string) {
	key := s.s3.GetObjectKeyFromLink(link)
	if key == "" {
		return
	}
	if err := s.s3.DeleteFile(key); err != nil {
		logging.Warn().Err(err).Str("object_key", key).Msg("failed to delete recipe image")
	}
}

func ingredientRows(req domain.RecipeRequest) []*entities.RecipeIngredient {
	rows := make([]*entities.RecipeIngredient, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		rows = append(rows, &entities.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount})
	}
	return rows
}

func (s *recipeService) CreateRecipe(ctx context.Context, userID uint, req domain.RecipeRequest) (domain.Recipe, error) {
	if err := s.validateRelations(ctx, req); err != nil {
		return domain.Recipe{}, err
	}

	image, err := s.uploadImage(req.Image)
	if err != nil {
		return domain.Recipe{}, err
	}

	r := &entities.Recipe{
		AuthorID:    userID,
		Name:        req.Name,
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		if err := repo.CreateRecipe(ctx, r); err != nil {
			return err
		}
		if err := repo.ReplaceTags(ctx, r.ID, req.Tags); err != nil {
			return err
		}
		return repo.ReplaceIngredients(ctx, r.ID, ingredientRows(req))
	})
	if err != nil {
		s.deleteImage(image)
		return domain.Recipe{}, err
	}

	return s.GetRecipeDetail(ctx, userID, r.ID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, userID, recipeID uint, req domain.RecipeRequest) (domain.Recipe, error) {
	r, err := s.getOwnRecipe(ctx, userID, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	if err := s.validateRelations(ctx, req); err != nil {
		return domain.Recipe{}, err
	}

	previousImage := r.Image
	image := previousImage
	if req.Image != previousImage {
		if image, err = s.uploadImage(req.Image); err != nil {
			return domain.Recipe{}, err
		}
	}

	r.Name = req.Name
	r.Text = req.Text
	r.Image = image
	r.CookingTime = req.CookingTime
	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		if err := repo.UpdateRecipe(ctx, r); err != nil {
			return err
		}
		if err := repo.ReplaceTags(ctx, r.ID, req.Tags); err != nil {
			return err
		}
		return repo.ReplaceIngredients(ctx, r.ID, ingredientRows(req))
	})
	if err != nil {
		if image != previousImage {
			s.deleteImage(image)
		}
		return domain.Recipe{}, err
	}
	if image != previousImage {
		s.deleteImage(previousImage)
	}

	return s.GetRecipeDetail(ctx, userID, r.ID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	r, err := s.getOwnRecipe(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		return repo.DeleteRecipe(ctx, r.ID)
	})
	if err != nil {
		return err
	}
	s.deleteImage(r.Image)
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, userID, recipeID uint) (domain.RecipeShort, error) {
	r, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeShort{}, err
	}

	exists, err := s.recipeRepository.IsFavorited(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeShort{}, err
	}
	if exists {
		return domain.RecipeShort{}, domain.ErrAlreadyFavorited
	}
	if err := s.recipeRepository.AddFavorite(ctx, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShort{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeShort{}, err
	}

	metrics.RelationChanges.WithLabelValues(metrics.RelationFavorite, metrics.ActionAdd).Inc()
	return ToRecipeShort(r), nil
}

func (s *recipeService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	removed, err := s.recipeRepository.RemoveFavorite(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFavorited
	}

	metrics.RelationChanges.WithLabelValues(metrics.RelationFavorite, metrics.ActionRemove).Inc()
	return nil
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, userID, recipeID uint) (domain.RecipeShort, error) {
	r, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeShort{}, err
	}

	exists, err := s.recipeRepository.IsInShoppingCart(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeShort{}, err
	}
	if exists {
		return domain.RecipeShort{}, domain.ErrAlreadyInShoppingCart
	}
	if err := s.recipeRepository.AddToShoppingCart(ctx, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShort{}, domain.ErrAlreadyInShoppingCart
		}
		return domain.RecipeShort{}, err
	}

	metrics.RelationChanges.WithLabelValues(metrics.RelationShoppingCart, metrics.ActionAdd).Inc()
	return ToRecipeShort(r), nil
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	removed, err := s.recipeRepository.RemoveFromShoppingCart(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotInShoppingCart
	}

	metrics.RelationChanges.WithLabelValues(metrics.RelationShoppingCart, metrics.ActionRemove).Inc()
	return nil
}

func (s *recipeService) DownloadShoppingList(ctx context.Context, userID uint) (string, error) {
	items, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return "", err
	}
	metrics.ShoppingListDownloads.Inc()
	return FormatShoppingList(items), nil
}

func (s *recipeService) SendShoppingList(ctx context.Context, userID uint) error {
	u, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	items, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return domain.ErrEmptyShoppingCart
	}

	attachment := mailing.Attachment{
		Filename: domain.ShoppingListFilename,
		Content:  []byte(FormatShoppingList(items)),
	}
	if err := s.mailer.SendMail(u.Email, shoppingListSubject, shoppingListBody, attachment); err != nil {
		logging.Error().Err(err).Uint("user_id", userID).Msg("failed to send shopping list")
		return err
	}
	return nil
}

func (s *recipeService) getRecipe(ctx context.Context, id uint) (*entities.Recipe, error) {
	r, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *recipeService) getOwnRecipe(ctx context.Context, userID, id uint) (*entities.Recipe, error) {
	r, err := s.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.AuthorID != userID {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	return r, nil
}
