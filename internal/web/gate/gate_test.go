package gate

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCurtain/GoCurtain/internal/db/models"
	"github.com/GoCurtain/GoCurtain/internal/options"
	"github.com/GoCurtain/GoCurtain/internal/web/session"
)

// noticeViews renders the notice data so tests can inspect it.
type noticeViews struct{}

func (noticeViews) Load() error { return nil }

func (noticeViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	m, ok := data.(fiber.Map)
	if !ok {
		return errors.New("unexpected data")
	}

	_, err := fmt.Fprintf(w, "%s|%s|%s|%s", name, m["Heading"], m["Background"], m["TextColor"])

	return err
}

type stubLoader struct {
	rec   options.Record
	err   error
	calls int
}

func (s *stubLoader) Options() (options.Record, error) {
	s.calls++
	return s.rec, s.err
}

func newApp(loader Loader, user *models.User) *fiber.App {
	app := fiber.New(fiber.Config{Views: noticeViews{}})

	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			session.SetUser(c, user)
		}

		return c.Next()
	})
	app.Use(New(Config{
		Loader:         loader,
		LoginPath:      "/login",
		PublicPrefixes: []string{"/static"},
	}))
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendString("content")
	})

	return app
}

func blockedTotal(t *testing.T) float64 {
	t.Helper()

	m := &dto.Metric{}
	require.NoError(t, blockedCounter().Write(m))

	return m.GetCounter().GetValue()
}

func TestAllow(t *testing.T) {
	tests := []struct {
		name          string
		mode          int
		authenticated bool
		path          string
		want          bool
	}{
		{name: "curtain up", mode: 0, path: "/", want: true},
		{name: "curtain down anonymous", mode: 1, path: "/", want: false},
		{name: "curtain down logged in", mode: 1, authenticated: true, path: "/", want: true},
		{name: "login page", mode: 1, path: "/login", want: true},
		{name: "login subpath", mode: 1, path: "/login/reset", want: true},
		{name: "login lookalike", mode: 1, path: "/loginx", want: false},
		{name: "other mode value", mode: 2, path: "/", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allow(tt.mode, tt.authenticated, tt.path, "/login"))
		})
	}

	assert.False(t, Allow(1, false, "/", ""))
}

func TestGateBlocksAnonymous(t *testing.T) {
	loader := &stubLoader{rec: options.Record{
		Mode:       options.ModeOn,
		Heading:    "Maintenance",
		Background: "#000000",
	}}

	before := blockedTotal(t)

	resp, err := newApp(loader, nil).Test(httptest.NewRequest(http.MethodGet, "/page", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Retry-After"))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "notice|Maintenance|#000000|white", string(body))
	assert.Equal(t, 1, loader.calls)

	assert.InDelta(t, before+1, blockedTotal(t), 0)
}

func TestGatePassesThrough(t *testing.T) {
	down := options.Record{Mode: options.ModeOn}

	tests := []struct {
		name   string
		loader *stubLoader
		user   *models.User
		path   string
	}{
		{name: "curtain up", loader: &stubLoader{rec: options.Record{}}, path: "/"},
		{name: "logged in", loader: &stubLoader{rec: down}, user: &models.User{ID: 1}, path: "/"},
		{name: "login page", loader: &stubLoader{rec: down}, path: "/login"},
		{name: "static asset", loader: &stubLoader{rec: down}, path: "/static/style.css"},
		{name: "options unreadable", loader: &stubLoader{err: errors.New("db down")}, path: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newApp(tt.loader, tt.user).Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, "content", string(body))
		})
	}
}

func TestGateNext(t *testing.T) {
	loader := &stubLoader{rec: options.Record{Mode: options.ModeOn}}

	app := fiber.New(fiber.Config{Views: noticeViews{}})
	app.Use(New(Config{
		Loader: loader,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics"
		},
	}))
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.SendString("metrics")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, loader.calls)
}

func TestNewPanicsWithoutLoader(t *testing.T) {
	assert.Panics(t, func() { New(Config{}) })
}
