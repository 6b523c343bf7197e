package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoCurtain/GoCurtain/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, cfg *config.Config) error
}
