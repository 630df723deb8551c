package server

import (
	"fmt"
	"strconv"
	"time"

	"sunseeker/internal/models"
	"sunseeker/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

// Register handles POST /api/auth/register. The application supports exactly
// one admin account; registration is only open while none exists.
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	count, err := s.adminRepo.Count(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if count > 0 {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Admin account already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	admin := &models.Admin{
		Username: req.Username,
		Password: string(hashedPassword),
	}
	if createErr := s.adminRepo.Create(c.Context(), admin); createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Admin account created",
		"admin":   admin,
	})
}

// Login handles POST /api/auth/login. On success the session token is set as
// an HttpOnly cookie and also returned in the body for non-browser clients.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	admin, err := s.adminRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if admin == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(admin.ID, admin.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	isProduction := s.config.Env == "production" || s.config.Env == "prod"
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: "Strict",
		MaxAge:   int(sessionTTL.Seconds()),
	})

	return c.JSON(fiber.Map{
		"token": token,
		"admin": admin,
	})
}

// Logout handles POST /api/auth/logout. The session's JTI is blacklisted in
// Redis until the token would have expired, and the cookie is cleared.
func (s *Server) Logout(c *fiber.Ctx) error {
	tokenString := c.Cookies(sessionCookieName)
	if tokenString == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenString = authHeader[7:]
		}
	}

	if tokenString != "" && s.redis != nil {
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err == nil && token.Valid {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				jti, _ := claims["jti"].(string)
				ttl := sessionTTL
				if exp, expOk := claims["exp"].(float64); expOk {
					if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
						ttl = remaining
					}
				}
				if jti != "" {
					s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl)
				}
			}
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HTTPOnly: true,
		MaxAge:   -1,
	})

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Profile handles GET /api/auth/profile
func (s *Server) Profile(c *fiber.Ctx) error {
	adminID := c.Locals("adminID").(uint)

	admin, err := s.adminRepo.GetByID(c.Context(), adminID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"admin": admin})
}

// generateToken creates a JWT session token for the admin.
func (s *Server) generateToken(adminID uint, username string) (string, error) {
	// Validate secret exists
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(adminID), 10),
		"username": username,
		"iss":      jwtIssuer,
		"aud":      jwtAudience,
		"exp":      now.Add(sessionTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
