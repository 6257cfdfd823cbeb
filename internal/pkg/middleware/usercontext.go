package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/internal/pkg/authtoken"
	"github.com/roll2bowl/partner-api/internal/pkg/database"
	"github.com/roll2bowl/partner-api/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the bearer token on every request and
// sets up the complete user context. Requests without a valid token pass
// through as anonymous; route guards decide what needs authentication.
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := func() error {
		c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: false, IsAdmin: false})
		c.Locals(usercontext.KeyFromProtected, false)
		c.Locals(usercontext.KeyIsAdmin, false)
		return c.Next()
	}

	token := extractBearerToken(c)
	if token == "" {
		return anonymous()
	}

	userID, ok := authtoken.Resolve(token)
	if !ok {
		return anonymous()
	}

	db := database.GetDB()
	if db == nil {
		log.Print("user context middleware: database unavailable")
		return anonymous()
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return anonymous()
	}
	if !user.IsActive() {
		return anonymous()
	}

	userCtx := usercontext.UserContext{
		UserID:      user.ID,
		Name:        user.Name,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		IsLoggedIn:  true,
		IsAdmin:     user.Role == models.ROLE_ADMIN,
	}
	c.Locals("USER_CONTEXT", userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, user.ID)
	c.Locals(usercontext.KeyIsAdmin, userCtx.IsAdmin)
	c.Locals("AUTH_TOKEN", token)

	return c.Next()
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
