package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rexxDigital/snailmail/internal/config"
	services "github.com/rexxDigital/snailmail/internal/services/mail"
	"github.com/rexxDigital/snailmail/types"
)

type Server struct {
	app  *fiber.App
	addr string
}

func New(cfg config.ServerConfig, mailService services.MailService) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "SnailMail API",
		DisableStartupMessage: true,
	})

	SetupRoutes(app,
		NewMailHandler(mailService),
		NewUserHandler(types.Profile{
			Username: cfg.Username,
			Email:    cfg.Email,
			Role:     "user",
		}),
	)

	return &Server{app: app, addr: cfg.Addr}
}

func (s *Server) App() *fiber.App {
	return s.app
}

// Start blocks until Shutdown.
func (s *Server) Start() error {
	return s.app.Listen(s.addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
