package login

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCurtain/GoCurtain/internal/auth"
	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/db/models"
	"github.com/GoCurtain/GoCurtain/internal/web/handler"
	"github.com/GoCurtain/GoCurtain/internal/web/handler/dashboard"
	"github.com/GoCurtain/GoCurtain/internal/web/session"
)

const (
	// Path is the default path to the login page.
	Path = config.DefaultLoginPath

	// TemplateName is the name of the login template.
	TemplateName = "login"

	paramRedirectTo = "redirect_to"
)

// Form is the submitted login form.
type Form struct {
	Username   string `form:"username"    json:"username"`
	Password   string `form:"password"    json:"password"`
	RedirectTo string `form:"redirect_to" json:"redirect_to"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	localAuth *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app or db is nil")
	}

	s.cfg = cfg
	s.localAuth = auth.NewLocalProvider(db)

	app.Route(s.path(), func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

func (s *Service) path() string {
	if s.cfg.Curtain.LoginPath != "" {
		return s.cfg.Curtain.LoginPath
	}

	return Path
}

// safeRedirect keeps redirects on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return dashboard.Path
	}

	return target
}

func (s *Service) renderError(c *fiber.Ctx, form *Form, err error) error {
	return c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"Username":   form.Username,
		"RedirectTo": form.RedirectTo,
		"error":      err.Error(),
	})
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	redirectTo := c.Query(paramRedirectTo)

	if session.CurrentUser(c) != nil {
		return c.Redirect(safeRedirect(redirectTo))
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"RedirectTo": redirectTo,
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		return s.renderError(c, form, ErrInvalidFormData)
	}

	user, err := s.localAuth.Authenticate(form.Username, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserAccountDisabled):
			err = ErrAccountDisabled
		case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
			err = ErrInvalidCredentials
		default:
			log.Error().Err(err).Msg("failed to authenticate user")

			err = ErrInternalServerError
		}

		log.Info().Str("username", form.Username).Err(err).Msg("login failed")

		return s.renderError(c, form, err)
	}

	if err = s.startSession(c, user); err != nil {
		log.Error().Err(err).Msg("failed to start session")
		return s.renderError(c, form, ErrInternalServerError)
	}

	log.Info().Str("username", user.Username).Msg("user logged in")

	return c.Redirect(safeRedirect(form.RedirectTo))
}

func (s *Service) startSession(c *fiber.Ctx, user *models.User) error {
	sessionID, err := session.GenerateSessionID()
	if err != nil {
		return err
	}

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		return err
	}

	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return nil
}
