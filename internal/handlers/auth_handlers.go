package handlers

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/pabloubeiracarramal/factor-back/internal/common"
	"github.com/pabloubeiracarramal/factor-back/internal/middleware"
	"github.com/pabloubeiracarramal/factor-back/internal/repositories"
)

const tokenTTL = 24 * time.Hour

type AuthHandlers struct {
	userRepo  repositories.UserRepository
	jwtSecret string
}

func NewAuthHandlers(userRepo repositories.UserRepository, jwtSecret string) *AuthHandlers {
	return &AuthHandlers{userRepo: userRepo, jwtSecret: jwtSecret}
}

// Login handles POST /auth/login and issues a JWT carrying the user and
// company ids.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "credentials", "email and password are required")
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return common.SendServerError(c, "Failed to look up user")
	}
	if user == nil || !user.Active {
		return common.SendUnauthorizedError(c)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return common.SendUnauthorizedError(c)
	}

	claims := &middleware.JWTCustomClaims{
		UserID:    user.ID.String(),
		CompanyID: user.CompanyID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return common.SendServerError(c, "Failed to sign token")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": signed,
		"user":  user,
	})
}
