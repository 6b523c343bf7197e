package login

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoCurtain/GoCurtain/internal/auth"
	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/db/models"
	"github.com/GoCurtain/GoCurtain/internal/web/handler/dashboard"
	"github.com/GoCurtain/GoCurtain/internal/web/identity"
	websess "github.com/GoCurtain/GoCurtain/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}
	// write template name to have some content
	_, _ = io.WriteString(w, name)

	return nil
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{Views: noOpViews{}})
	app.Use(identity.Identify)

	return app
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.Role{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate user model: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: false,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Curtain: config.Curtain{LoginPath: Path},
	}
}

func initSessionStore() {
	// Initialize a fresh in-memory session store for each test.
	websess.Init(nil)
}

func newService(t *testing.T, cfg *config.Config) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	app := newTestApp()

	initSessionStore()

	var s Service
	if err := s.Init(app, cfg, db); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	return app, db
}

func createUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()

	user, err := auth.NewLocalProvider(db).CreateUser(username, username+"@example.com", password, 0)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

func performPost(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	return string(bodyBytes)
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                 dashboard.Path,
		"/admin/settings":  "/admin/settings",
		"//evil.example":   dashboard.Path,
		"https://evil.com": dashboard.Path,
		"/\\evil.example":  dashboard.Path,
	}

	for in, want := range tests {
		if got := safeRedirect(in); got != want {
			t.Fatalf("safeRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPost_Success_SetsCookieAndRedirects(t *testing.T) {
	cfg := newTestConfig()
	app, db := newService(t, cfg)

	createUser(t, db, "bob", "s3cr3t")

	form := url.Values{
		"username": {"bob"},
		"password": {"s3cr3t"},
	}
	resp := performPost(t, app, Path, form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != dashboard.Path {
		t.Fatalf("expected redirect to %s, got %s", dashboard.Path, loc)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, websess.CookieName+"=") {
		t.Fatalf("expected session cookie, got %q", setCookie)
	}

	if !strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("expected Secure flag on cookie when DevMode=false, got %q", setCookie)
	}
}

func TestPost_Success_HonorsRedirectTo(t *testing.T) {
	app, db := newService(t, newTestConfig())

	createUser(t, db, "erin", "pw")

	resp := performPost(t, app, Path, url.Values{
		"username":    {"erin"},
		"password":    {"pw"},
		"redirect_to": {"/admin/settings/curtain"},
	})

	if loc := resp.Header.Get("Location"); loc != "/admin/settings/curtain" {
		t.Fatalf("expected redirect to settings, got %s", loc)
	}
}

func TestPost_Success_DevModeDisablesSecure(t *testing.T) {
	cfg := newTestConfig()
	cfg.DevMode = true // Secure=false expected

	app, db := newService(t, cfg)

	createUser(t, db, "carol", "pass")

	resp := performPost(t, app, Path, url.Values{
		"username": {"carol"},
		"password": {"pass"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("did not expect Secure flag when DevMode=true, got %q", setCookie)
	}
}

func TestPost_WrongPassword_RendersError(t *testing.T) {
	app, db := newService(t, newTestConfig())

	createUser(t, db, "dave", "right")

	resp := performPost(t, app, Path, url.Values{
		"username": {"dave"},
		"password": {"wrong"},
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
	}

	if body := readBody(t, resp); !strings.Contains(body, ErrInvalidCredentials.Error()) {
		t.Fatalf("expected invalid credentials error, got %q", body)
	}
}

func TestPost_DisabledAccount_RendersError(t *testing.T) {
	app, db := newService(t, newTestConfig())

	user := createUser(t, db, "frank", "pw")
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error; err != nil {
		t.Fatalf("failed to disable user: %v", err)
	}

	resp := performPost(t, app, Path, url.Values{
		"username": {"frank"},
		"password": {"pw"},
	})

	if body := readBody(t, resp); !strings.Contains(body, ErrAccountDisabled.Error()) {
		t.Fatalf("expected disabled error, got %q", body)
	}
}

func TestPost_InvalidForm_RendersError(t *testing.T) {
	app, _ := newService(t, newTestConfig())

	// Malformed JSON to force BodyParser error
	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
	}

	if body := readBody(t, resp); !strings.Contains(body, ErrInvalidFormData.Error()) {
		t.Fatalf("expected error message in body, got %q", body)
	}
}

func TestGet_LoggedInRedirects(t *testing.T) {
	app, db := newService(t, newTestConfig())

	user := createUser(t, db, "gina", "pw")

	sessionID, err := websess.GenerateSessionID()
	if err != nil {
		t.Fatalf("failed to generate session id: %v", err)
	}

	if err = (&websess.Data{User: *user}).Write(sessionID, time.Minute); err != nil {
		t.Fatalf("failed to write session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	req.AddCookie(&http.Cookie{Name: websess.CookieName, Value: sessionID})

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect for logged in user, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, Path, nil), -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	if body := readBody(t, resp); body != TemplateName {
		t.Fatalf("expected login template, got %q", body)
	}
}
