package jwt

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/utils"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenLifetime = 120 * time.Minute

type (
	JWTService interface {
		GenerateTokenUser(userID uint, role string) (string, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (uint, string, error)
	}

	jwtUserClaim struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func getSecretKey() string {
	return utils.GetConfig("JWT_SECRET")
}

func NewJWTService() (JWTService, error) {
	return NewJWTServiceWithSecret(getSecretKey())
}

// NewJWTServiceWithSecret fails on an empty or blank secret.
func NewJWTServiceWithSecret(secret string) (JWTService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, domain.ErrJWTSecretEmpty
	}
	return &jwtService{
		secretKey: secret,
		issuer:    "FOODGRAM",
	}, nil
}

func (j *jwtService) GenerateTokenUser(userID uint, role string) (string, error) {
	claims := jwtUserClaim{
		userID,
		role,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) GetUserIDByToken(token string) (uint, string, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", domain.ErrTokenExpired
		}
		return 0, "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return 0, "", domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtUserClaim)
	return claims.UserID, claims.Role, nil
}
