package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const jwtTestSecret = "jwt-test-secret"

func signTestToken(t *testing.T, secret, subject, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  jwt.NewNumericDate(time.Now()),
		"exp":  jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newJWTTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", JWTProtected(jwtTestSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"subject": Subject(c),
			"role":    c.Locals(LocalsRole),
		})
	})
	return app
}

func TestJWTProtectedAcceptsValidToken(t *testing.T) {
	app := newJWTTestApp()
	token := signTestToken(t, jwtTestSecret, "ABC123", "Participant", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTProtectedRejectsBadTokens(t *testing.T) {
	app := newJWTTestApp()

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage token":  "Bearer not-a-token",
		"wrong secret":   "Bearer " + signTestToken(t, "other-secret", "ABC123", "participant", time.Hour),
		"expired":        "Bearer " + signTestToken(t, jwtTestSecret, "ABC123", "participant", -time.Hour),
	}

	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, name)
	}
}

func TestRequireRole(t *testing.T) {
	app := fiber.New()
	app.Get("/teacher-only",
		func(c *fiber.Ctx) error {
			if role := c.Get("X-Test-Role"); role != "" {
				c.Locals(LocalsRole, role)
			}
			return c.Next()
		},
		RequireRole("teacher", "admin"),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	cases := []struct {
		role string
		want int
	}{
		{"teacher", fiber.StatusOK},
		{"Admin", fiber.StatusOK},
		{"participant", fiber.StatusForbidden},
		{"", fiber.StatusForbidden},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/teacher-only", nil)
		if tc.role != "" {
			req.Header.Set("X-Test-Role", tc.role)
		}

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, tc.want, resp.StatusCode, "role %q", tc.role)
	}
}
