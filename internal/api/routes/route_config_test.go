package routes

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/cache"
	"Foodgram-Backend/internal/utils/mailing"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubS3 struct{}

func (stubS3) UploadFile(fileName string, file []byte, folder string, allowTypes ...string) (string, error) {
	return folder + "/" + fileName + ".png", nil
}
func (stubS3) GetPublicLinkKey(objectKey string) string { return "https://bucket.test/" + objectKey }
func (stubS3) GetObjectKeyFromLink(link string) string { return "" }
func (stubS3) DeleteFile(objectKey string) error { return nil }

type stubMailer struct{}

func (stubMailer) SendMail(toEmail, subject, body string, attachments ...mailing.Attachment) error {
	return nil
}

type envelope struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

type testServer struct {
	app  *fiber.App
	db   *gorm.DB
	jwt  jwt.JWTService
	user *entities.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	utils.InitValidator()
	db := testutil.NewDB(t)
	jwtService, err := jwt.NewJWTServiceWithSecret("secret")
	require.NoError(t, err)

	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)

	app := fiber.New()
	cfg := Config{
		App:               app,
		UserHandler:       handlers.NewUserHandler(user.NewUserService(userRepository, jwtService), utils.Validate),
		TagHandler:        handlers.NewTagHandler(tag.NewTagService(tagRepository, cache.NewNoopCache()), utils.Validate),
		IngredientHandler: handlers.NewIngredientHandler(ingredient.NewIngredientService(ingredientRepository), utils.Validate),
		RecipeHandler: handlers.NewRecipeHandler(recipe.NewRecipeService(
			recipe.NewRecipeRepository(db),
			ingredientRepository,
			tagRepository,
			userRepository,
			stubS3{},
			stubMailer{},
		), utils.Validate),
		Middleware: middleware.NewMiddleware(userRepository),
		JWTService: jwtService,
	}
	cfg.Setup()

	return &testServer{
		app:  app,
		db:   db,
		jwt:  jwtService,
		user: testutil.CreateUser(t, db, "reader"),
	}
}

func (s *testServer) token(t *testing.T, u *entities.User) string {
	t.Helper()
	token, err := s.jwt.GenerateTokenUser(u.ID, u.Role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Token "+token)
	}

	res, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decode(t *testing.T, res *http.Response) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	return env
}

func TestDownloadShoppingCart(t *testing.T) {
	s := newTestServer(t)
	flour := testutil.CreateIngredient(t, s.db, "flour", "g")
	lunch := testutil.CreateTag(t, s.db, "lunch")
	bread := testutil.CreateRecipe(t, s.db, s.user, "bread", map[*entities.Ingredient]int{flour: 100}, lunch)
	cake := testutil.CreateRecipe(t, s.db, s.user, "cake", map[*entities.Ingredient]int{flour: 50}, lunch)
	token := s.token(t, s.user)

	for _, r := range []*entities.Recipe{bread, cake} {
		res := s.do(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", r.ID), token, nil)
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}

	res := s.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "attachment; filename=shopping-list.txt", res.Header.Get(fiber.HeaderContentDisposition))
	assert.Contains(t, res.Header.Get(fiber.HeaderContentType), "text/plain")

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\nflour: 150, g", string(body))

	res = s.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestSubscriptionsRecipesLimit(t *testing.T) {
	s := newTestServer(t)
	author := testutil.CreateUser(t, s.db, "author")
	for i := 0; i < 3; i++ {
		testutil.CreateRecipe(t, s.db, author, fmt.Sprintf("dish-%d", i), nil)
	}
	token := s.token(t, s.user)

	res := s.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe?recipes_limit=1", author.ID), token, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var sub domain.Subscription
	require.NoError(t, json.Unmarshal(decode(t, res).Data, &sub))
	assert.Len(t, sub.Recipes, 1)
	assert.Equal(t, int64(3), sub.RecipesCount)

	res = s.do(t, http.MethodGet, "/api/users/subscriptions?recipes_limit=2", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list domain.SubscriptionListResponse
	require.NoError(t, json.Unmarshal(decode(t, res).Data, &list))
	require.Len(t, list.Subscriptions, 1)
	assert.Len(t, list.Subscriptions[0].Recipes, 2)

	for _, bad := range []string{"abc", "-1"} {
		res = s.do(t, http.MethodGet, "/api/users/subscriptions?recipes_limit="+bad, token, nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Contains(t, decode(t, res).Errors, "recipes_limit")
	}

	res = s.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", s.user.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = s.do(t, http.MethodPost, "/api/users/9999/subscribe", token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = s.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d/subscribe", author.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res = s.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d/subscribe", author.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestFavoriteStatuses(t *testing.T) {
	s := newTestServer(t)
	r := testutil.CreateRecipe(t, s.db, s.user, "soup", nil)
	token := s.token(t, s.user)
	path := fmt.Sprintf("/api/recipes/%d/favorite", r.ID)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodPost, path, http.StatusCreated},
		{http.MethodPost, path, http.StatusBadRequest},
		{http.MethodDelete, path, http.StatusNoContent},
		{http.MethodDelete, path, http.StatusBadRequest},
		{http.MethodPost, "/api/recipes/9999/favorite", http.StatusNotFound},
		{http.MethodPost, "/api/recipes/abc/favorite", http.StatusBadRequest},
	}

	for _, tt := range tests {
		res := s.do(t, tt.method, tt.path, token, nil)
		assert.Equal(t, tt.want, res.StatusCode, "%s %s", tt.method, tt.path)
	}
}

func TestCreateRecipeRequest(t *testing.T) {
	s := newTestServer(t)
	flour := testutil.CreateIngredient(t, s.db, "flour", "g")
	lunch := testutil.CreateTag(t, s.db, "lunch")
	token := s.token(t, s.user)

	valid := domain.RecipeRequest{
		Name:        "Bread",
		Text:        "Bake it.",
		Image:       "data:image/png;base64,iVBORw0KGgo=",
		CookingTime: 60,
		Ingredients: []domain.RecipeIngredientRequest{{ID: flour.ID, Amount: 500}},
		Tags:        []uint{lunch.ID},
	}

	res := s.do(t, http.MethodPost, "/api/recipes", "", valid)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	invalid := valid
	invalid.Name = ""
	invalid.CookingTime = 0
	invalid.Ingredients = []domain.RecipeIngredientRequest{{ID: flour.ID, Amount: 0}}
	res = s.do(t, http.MethodPost, "/api/recipes", token, invalid)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	env := decode(t, res)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "cooking_time")
	assert.Contains(t, env.Errors, "ingredients[0].amount")

	res = s.do(t, http.MethodPost, "/api/recipes", token, valid)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created domain.Recipe
	require.NoError(t, json.Unmarshal(decode(t, res).Data, &created))
	assert.Equal(t, "Bread", created.Name)

	other := testutil.CreateUser(t, s.db, "other")
	res = s.do(t, http.MethodPatch, fmt.Sprintf("/api/recipes/%d", created.ID), s.token(t, other), valid)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = s.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res = s.do(t, http.MethodGet, "/api/recipes?tags=lunch&tags=dinner", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list domain.RecipeListResponse
	require.NoError(t, json.Unmarshal(decode(t, res).Data, &list))
	assert.Len(t, list.Recipes, 1)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)
	req := domain.CreateTagRequest{Name: "Breakfast", Color: "#E26C2D"}

	res := s.do(t, http.MethodPost, "/api/admin/tags", s.token(t, s.user), req)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	admin := testutil.CreateUser(t, s.db, "admin")
	require.NoError(t, s.db.Model(admin).Update("role", domain.RoleAdmin).Error)
	admin.Role = domain.RoleAdmin

	res = s.do(t, http.MethodPost, "/api/admin/tags", s.token(t, admin), req)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created domain.Tag
	require.NoError(t, json.Unmarshal(decode(t, res).Data, &created))
	assert.Equal(t, "breakfast", created.Slug)

	res = s.do(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var tags []domain.Tag
	require.NoError(t, json.Unmarshal(decode(t, res).Data, &tags))
	assert.Len(t, tags, 1)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/api/users", "", domain.RegisterRequest{
		Email: "ann@example.com", Username: "ann", FirstName: "Ann", LastName: "Lee", Password: "longpassword",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = s.do(t, http.MethodPost, "/api/auth/token/login", "", domain.LoginRequest{Email: "ann@example.com", Password: "longpassword"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var login domain.LoginResponse
	require.NoError(t, json.Unmarshal(decode(t, res).Data, &login))
	require.NotEmpty(t, login.AuthToken)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+login.AuthToken)
	res, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var me domain.User
	require.NoError(t, json.Unmarshal(decode(t, res).Data, &me))
	assert.Equal(t, "ann", me.Username)
}

func TestTokenOfDeletedUserIsRejected(t *testing.T) {
	s := newTestServer(t)
	ghost := testutil.CreateUser(t, s.db, "ghost")
	token := s.token(t, ghost)
	require.NoError(t, s.db.Unscoped().Delete(&entities.User{}, ghost.ID).Error)

	res := s.do(t, http.MethodPost, "/api/recipes", token, domain.RecipeRequest{
		Name: "soup", Text: "boil", Image: "https://example.com/soup.png", CookingTime: 5,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = s.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestDemotedAdminLosesAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := testutil.CreateUser(t, s.db, "admin")
	require.NoError(t, s.db.Model(admin).Update("role", domain.RoleAdmin).Error)
	admin.Role = domain.RoleAdmin
	token := s.token(t, admin)

	require.NoError(t, s.db.Model(admin).Update("role", domain.RoleUser).Error)

	res := s.do(t, http.MethodPost, "/api/admin/tags", token, domain.CreateTagRequest{Name: "Dinner", Color: "#E26C2D"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
