// Package auth issues and verifies the bearer tokens handed out at login.
package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

var ErrNoSecret = errors.New("jwt secret is not configured")

// Issuer signs HS256 tokens carrying the user id and role.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(userID, role string) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNoSecret
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     i.now().Add(i.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Middleware rejects requests without a valid bearer token signed with secret.
func Middleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	})
}

// RoleAdmin may act on any user record.
const RoleAdmin = "admin"

// Identity is the caller named by a verified token.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Caller returns the identity stored by Middleware. ok is false when the
// request carried no verified token.
func Caller(c *fiber.Ctx) (Identity, bool) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return Identity{}, false
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	id, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	return Identity{UserID: id, Role: role}, true
}
