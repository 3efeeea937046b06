package controllers

import (
	"time"

	"catering-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenLifetime = 24 * time.Hour

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthController struct {
	db     *gorm.DB
	secret []byte
	log    *zap.Logger
}

func NewAuthController(db *gorm.DB, secret string, log *zap.Logger) *AuthController {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthController{db: db, secret: []byte(secret), log: log}
}

// Login checks the bcrypt password of a stored user and issues a 24h token.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var creds Credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := validate.Struct(creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password are required"})
	}

	db := h.db.WithContext(c.UserContext())
	var user models.User
	if err := db.Where("username = ?", models.NormalizeUsername(creds.Username)).First(&user).Error; err != nil {
		h.log.Info("login for unknown user", zap.String("username", creds.Username))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	if !user.Authenticate(creds.Password) {
		h.log.Info("login rejected", zap.String("username", user.Username), zap.Bool("disabled", user.Disabled))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	if err := user.RecordLogin(db, time.Now()); err != nil {
		h.log.Warn("could not record login", zap.String("username", user.Username), zap.Error(err))
	}

	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		h.log.Error("could not sign token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate token"})
	}

	return c.JSON(fiber.Map{"token": tokenString, "user": user.Username})
}
