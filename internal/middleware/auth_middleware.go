package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/models"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	tokenKey     = "token"
	userKey      = "auth_user"
	userIDKey    = "user_id"
	roleKey      = "role"
	tokenIDKey   = "token_id"
	tokenExpKey  = "token_exp"
	AccessCookie = "accessToken"
)

// Authenticator resolves the user behind a verified access token.
type Authenticator interface {
	Authenticate(ctx context.Context, userID, jti string) (*models.User, error)
}

// Protected verifies the access token from the Authorization header or the
// accessToken cookie, then loads the user it was issued to.
func Protected(secret string, auth Authenticator) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(secret)},
		TokenLookup: "header:Authorization,cookie:" + AccessCookie,
		AuthScheme:  "Bearer",
		ContextKey:  tokenKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return apperr.Unauthorized("Unauthorized request")
			}
			return apperr.Unauthorized("Invalid access token")
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			return loadUser(c, auth)
		},
	})
}

func loadUser(c *fiber.Ctx, auth Authenticator) error {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok {
		return apperr.Unauthorized("Invalid access token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return apperr.Unauthorized("Invalid access token")
	}

	userID, _ := claims["_id"].(string)
	jti, _ := claims["jti"].(string)
	user, err := auth.Authenticate(c.UserContext(), userID, jti)
	if err != nil {
		return err
	}

	// role comes from the stored user so role changes apply to live tokens
	c.Locals(userKey, user)
	c.Locals(userIDKey, user.ID.Hex())
	c.Locals(roleKey, user.Role)
	c.Locals(tokenIDKey, jti)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.Locals(tokenExpKey, exp.Time)
	}
	return c.Next()
}

// CurrentUser returns the user loaded by Protected, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// UserID returns the authenticated user's id, or the zero id.
func UserID(c *fiber.Ctx) primitive.ObjectID {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return primitive.NilObjectID
}

// Role returns the authenticated user's role, or "".
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(roleKey).(string)
	return role
}

// AccessToken returns the id and expiry of the verified access token.
func AccessToken(c *fiber.Ctx) (string, time.Time) {
	jti, _ := c.Locals(tokenIDKey).(string)
	exp, _ := c.Locals(tokenExpKey).(time.Time)
	return jti, exp
}
