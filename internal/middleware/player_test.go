package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsurePlayerIDSources(t *testing.T) {
	app := fiber.New()
	app.Get("/", EnsurePlayerID(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("playerID").(string))
	})

	tests := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"header", "/", "alice", http.StatusOK},
		{"query", "/?playerId=bob", "", http.StatusOK},
		{"header wins", "/?playerId=bob", "alice", http.StatusOK},
		{"missing", "/", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Player-ID", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestEnsurePlayerIDCopiesValue(t *testing.T) {
	// no Immutable: the stored id must not alias the request buffer
	app := fiber.New()
	var seen []string
	app.Get("/", EnsurePlayerID(), func(c *fiber.Ctx) error {
		seen = append(seen, c.Locals("playerID").(string))
		return nil
	})

	for _, id := range []string{"alice", "zz", "mallory-the-spectator"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Player-ID", id)
		_, err := app.Test(req, -1)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"alice", "zz", "mallory-the-spectator"}, seen)
}
