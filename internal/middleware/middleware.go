package middleware

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/pkg/jwt"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		AdminMiddleware() fiber.Handler
	}

	UserLookup interface {
		GetUserByID(ctx context.Context, id uint) (*entities.User, error)
	}

	middleware struct {
		users UserLookup
	}
)

func NewMiddleware(users UserLookup) Middleware {
	return &middleware{users: users}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}

// bearerToken accepts both "Bearer <jwt>" and "Token <jwt>".
func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	for _, scheme := range []string{"Bearer ", "Token "} {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}

// authenticate resolves the token owner from the database, so deleted
// users are rejected and the role reflects the stored one.
func (m *middleware) authenticate(c *fiber.Ctx, jwtService jwt.JWTService) error {
	token := bearerToken(c)
	if token == "" {
		return domain.ErrTokenNotFound
	}

	userID, _, err := jwtService.GetUserIDByToken(token)
	if err != nil {
		return err
	}
	user, err := m.users.GetUserByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	c.Locals("user_id", user.ID)
	c.Locals("role", user.Role)
	return nil
}

func authFailed(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrTokenNotFound):
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, err)
	case errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrUserNotFound):
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
	default:
		logging.FromFiber(c).Error().Err(err).Msg("authentication lookup failed")
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, errors.New(domain.MessageFailedProcessRequest))
	}
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := m.authenticate(c, jwtService); err != nil {
			return authFailed(c, err)
		}
		return c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is sent
// and lets anonymous requests through otherwise.
func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if bearerToken(c) == "" {
			return c.Next()
		}
		if err := m.authenticate(c, jwtService); err != nil {
			return authFailed(c, err)
		}
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func (m *middleware) AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals("role").(string); role != domain.RoleAdmin {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MesaageUserNotAllowed, domain.ErrUserNotAllowed)
		}
		return c.Next()
	}
}
