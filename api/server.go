// Package api serves the ledger over HTTP using fiber.
package api

import (
	"context"

	"ledger/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

// HealthCheck reports whether the backing store is reachable
type HealthCheck func(ctx context.Context) error

// Server is the REST front end of the ledger
type Server struct {
	app       *fiber.App
	accounts  service.AccountService
	transfers service.TransferService
	health    HealthCheck
}

// NewServer builds the fiber app and registers every route
func NewServer(accounts service.AccountService, transfers service.TransferService, health HealthCheck) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "ledger",
			DisableStartupMessage: true,
			ErrorHandler:          errorHandler,
		}),
		accounts:  accounts,
		transfers: transfers,
		health:    health,
	}

	s.app.Use(RequestID())
	s.app.Use(RequestLogger())
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace:  true,
		StackTraceHandler: logPanic,
	}))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/", s.handleListAccounts)

	api := s.app.Group("/api")
	api.Get("/users/", s.handleListAccounts)
	api.Post("/users/", s.handleCreateAccount)
	api.Get("/user/:id/", s.handleGetAccount)
	api.Post("/user/:id/", s.handleUpdateAccount)
	api.Delete("/user/:id/", s.handleDeleteAccount)
	api.Post("/send/", s.handleTransfer)
}

// App exposes the underlying fiber app, mainly for app.Test in tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	log.WithField("addr", addr).Info("HTTP server listening")
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
