package toggle

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoCurtain/GoCurtain/internal/auth"
	"github.com/GoCurtain/GoCurtain/internal/capability"
	"github.com/GoCurtain/GoCurtain/internal/curtain"
	"github.com/GoCurtain/GoCurtain/internal/db/models"
	"github.com/GoCurtain/GoCurtain/internal/options"
	"github.com/GoCurtain/GoCurtain/internal/web/session"
)

const (
	settingsPath = "/admin/settings/curtain"
	optionsPath  = "/admin/options-general"
)

type fixture struct {
	plugin *curtain.Plugin
	users  map[string]*models.User
}

func setup(t *testing.T) fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	users := map[string]*models.User{}

	for _, name := range []string{"administrator", "editor", "subscriber"} {
		role := models.Role{Name: name}
		require.NoError(t, db.Create(&role).Error)

		user := &models.User{Username: name, Active: true, RoleID: role.ID}
		require.NoError(t, db.Omit("Role").Create(user).Error)
		users[name] = user
	}

	require.NoError(t, capability.Add(db, capability.ManageOptions, "administrator"))

	plugin := curtain.New(db, "")
	require.NoError(t, plugin.Activate())

	return fixture{plugin: plugin, users: users}
}

func (f fixture) app(as string) *fiber.App {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		if user, ok := f.users[as]; ok {
			session.SetUser(c, user)
		}

		return c.Next()
	})

	admin := app.Group("/admin", New(Config{
		Plugin:       f.plugin,
		AuthService:  auth.NewService(f.plugin.DB()),
		SettingsPath: settingsPath,
		OptionsPath:  optionsPath,
	}))
	admin.Get("/*", func(c *fiber.Ctx) error {
		return c.SendString("page")
	})

	return app
}

func do(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)

	return resp
}

func (f fixture) mode(t *testing.T) int {
	t.Helper()

	mode, err := f.plugin.Mode()
	require.NoError(t, err)

	return mode
}

func TestFlip(t *testing.T) {
	f := setup(t)
	app := f.app("administrator")

	resp := do(t, app, "/admin/dashboard?curtain=1")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard?mode=1", resp.Header.Get("Location"))
	assert.Equal(t, options.ModeOn, f.mode(t))

	resp = do(t, app, "/admin/dashboard?foo=bar&curtain=0")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard?foo=bar&mode=0", resp.Header.Get("Location"))
	assert.Equal(t, options.ModeOff, f.mode(t), "0 -> 1 -> 0 restores the mode")
}

func TestNoOpFlipDoesNotRedirect(t *testing.T) {
	f := setup(t)

	resp := do(t, f.app("editor"), "/admin/dashboard?curtain=0")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
}

func TestFlipNonNumeric(t *testing.T) {
	f := setup(t)

	_, err := f.plugin.SetMode(options.ModeOn)
	require.NoError(t, err)

	resp := do(t, f.app("administrator"), "/admin?curtain=abc")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin?mode=0", resp.Header.Get("Location"))
	assert.Equal(t, options.ModeOff, f.mode(t))
}

func TestFlipRequiresCapability(t *testing.T) {
	f := setup(t)

	for _, as := range []string{"subscriber", "anonymous"} {
		resp := do(t, f.app(as), "/admin/dashboard?curtain=1")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, as)
	}

	assert.Equal(t, options.ModeOff, f.mode(t))
}

func TestReset(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "settings page", target: settingsPath + "?reset=1"},
		{name: "options page", target: optionsPath + "?page=curtain&reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			rec, err := f.plugin.Options()
			require.NoError(t, err)

			rec.Mode = options.ModeOn
			rec.Heading = "Gone fishing"

			_, err = options.Update(f.plugin.DB(), rec)
			require.NoError(t, err)
			require.NoError(t, capability.Replace(f.plugin.DB(), []string{"subscriber"}))

			resp := do(t, f.app("administrator"), tt.target)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, settingsPath, resp.Header.Get("Location"))

			rec, err = f.plugin.Options()
			require.NoError(t, err)
			assert.Equal(t, options.DefaultHeading, rec.Heading)
			assert.Equal(t, options.ModeOn, rec.Mode, "reset preserves the mode")

			granted, err := capability.Granted(f.plugin.DB())
			require.NoError(t, err)
			assert.Equal(t, []string{"administrator", "editor"}, granted)
		})
	}
}

func TestResetIgnoredElsewhere(t *testing.T) {
	f := setup(t)

	for _, target := range []string{"/admin/dashboard?reset=1", optionsPath + "?page=other&reset=1"} {
		resp := do(t, f.app("administrator"), target)
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
	}
}

func TestResetRequiresManageOptions(t *testing.T) {
	f := setup(t)

	resp := do(t, f.app("editor"), settingsPath+"?reset=1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLink(t *testing.T) {
	app := fiber.New()
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendString(Link(c, "/admin", ParamCurtain, "1", "activate"))
	})

	resp := do(t, app, "/anything?activate=true&b=2&curtain=0")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "/admin?b=2&curtain=1", string(body))
}

func TestNewPanics(t *testing.T) {
	assert.Panics(t, func() { New(Config{}) })
}
