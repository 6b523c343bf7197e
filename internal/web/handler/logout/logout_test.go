package logout

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/db/models"
	"github.com/GoCurtain/GoCurtain/internal/web/session"
)

func TestLogout(t *testing.T) {
	session.Init(nil)

	id, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{User: models.User{ID: 1}}).Write(id, time.Minute))

	app := fiber.New()

	var s Service
	require.NoError(t, s.Init(app, &config.Config{Curtain: config.Curtain{LoginPath: "/login"}}))

	req := httptest.NewRequest(http.MethodPost, Path, nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Contains(t, resp.Header.Get("Set-Cookie"), session.CookieName+"=;")

	require.ErrorIs(t, new(session.Data).Read(id), session.ErrNoSession)
}
