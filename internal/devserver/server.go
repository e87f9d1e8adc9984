package devserver

import (
	"net"
	"time"

	"alto-client/configs"
	"alto-client/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

const (
	defaultSecret     = "dev-secret-change-me"
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour

	refreshCookie = "refresh_token"
	refreshPath   = "/api/v1/auth"
	localEmail    = "email"
)

// Server struct - in-memory stand-in for the interview API
type Server struct {
	app        *fiber.App
	store      *store
	interviews *interviews
	tokens     *tokenIssuer
	validator  validator.Validator
	refreshTTL time.Duration
}

// New func - Creates the dev server and registers its routes
func New(cfg configs.DevServer) *Server {
	secret := cfg.JWTSecret
	if secret == "" {
		logrus.Warn("devserver.jwt_secret not set, using the built-in development secret")
		secret = defaultSecret
	}
	accessTTL := time.Duration(cfg.AccessTTL) * time.Minute
	if cfg.AccessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	refreshTTL := time.Duration(cfg.RefreshTTL) * time.Hour
	if cfg.RefreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}

	s := &Server{
		app:        fiber.New(fiber.Config{DisableStartupMessage: true}),
		store:      newStore(time.Now),
		interviews: newInterviews(),
		tokens:     &tokenIssuer{secret: []byte(secret), ttl: accessTTL, now: time.Now},
		validator:  validator.New(),
		refreshTTL: refreshTTL,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	s.app.Use(requestLogger)

	s.app.Get("/health", s.HealthCheck)
	s.app.Get("/me", s.requireAuth, s.Me)

	auth := s.app.Group("/api/v1/auth")
	{
		auth.Post("/login", s.Login)
		auth.Post("/register", s.Register)
		auth.Post("/verify-email", s.VerifyEmail)
		auth.Post("/resend-verification", s.ResendVerification)
		auth.Post("/forgot-password", s.ForgotPassword)
		auth.Post("/reset-password", s.ResetPassword)
		auth.Post("/refresh", s.Refresh)
		auth.Post("/logout", s.requireAuth, s.Logout)
	}

	v1 := s.app.Group("/api/v1")
	{
		v1.Put("/users/me", s.requireAuth, s.UpdateProfile)
		v1.Post("/chat", s.requireAuth, s.Chat)
	}
}

// App exposes the fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen func
func (s *Server) Listen(addr string) error {
	logrus.Infof("Dev server listening on %s", addr)
	return s.app.Listen(addr)
}

// Serve func - serves on an existing listener
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown func
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// SeedUser creates an already verified account
func (s *Server) SeedUser(email, name, password string) error {
	return s.store.createAccount(email, name, password, true)
}

// LastCode returns the outstanding verification code for email, "" when none
func (s *Server) LastCode(email string) string {
	return s.store.lastCode(purposeVerify, email)
}

// LastResetCode returns the outstanding password reset code for email, "" when none
func (s *Server) LastResetCode(email string) string {
	return s.store.lastCode(purposeReset, email)
}

func requestLogger(c *fiber.Ctx) error {
	err := c.Next()
	logrus.Debugf("%s %s -> %d (request %s)", c.Method(), c.Path(), c.Response().StatusCode(), c.Get("X-Request-ID"))
	return err
}
