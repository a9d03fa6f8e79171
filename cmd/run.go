package cmd

import (
	"context"
	"fmt"
	"time"

	"ledger/api"
	"ledger/bot"
	"ledger/config"
	"ledger/credential"
	"ledger/events"
	"ledger/infrastructure"
	"ledger/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"driver":      cfg.DatabaseDriver,
	}).Info("Starting ledger...")

	eventBus := events.NewBus()

	// Optional external event sink
	publisher, err := infrastructure.NewMessagePublisher(ctx, infrastructure.SinkConfig{
		Sink:         cfg.EventSink,
		NATSServers:  cfg.NATSServers,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize event sink: %w", err)
	}
	if publisher != nil {
		infrastructure.NewEventForwarder(publisher).Register(eventBus)
		log.WithField("sink", cfg.EventSink).Info("Forwarding events to external sink")
	}

	st, err := openStore(ctx, cfg, eventBus)
	if err != nil {
		if publisher != nil {
			publisher.Close()
		}
		return err
	}
	log.Info("Database connection established successfully")

	hasher := credential.NewHasher(cfg.CredentialPepper)
	accountService := service.NewAccountService(st.uowFactory, hasher)
	transferService := service.NewTransferService(st.uowFactory, hasher)

	server := api.NewServer(accountService, transferService, st.health)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Listen(cfg.HTTPAddr)
	}()

	var discordBot *bot.Bot
	if cfg.DiscordToken != "" {
		discordBot, err = bot.New(bot.Config{
			Token:   cfg.DiscordToken,
			GuildID: cfg.DiscordGuildID,
		}, accountService, transferService)
		if err != nil {
			log.WithError(err).Error("Failed to initialize Discord bot, continuing without it")
		}
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down ledger...")
	case err := <-serverErr:
		runErr = fmt.Errorf("http server stopped: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down HTTP server")
	}

	if discordBot != nil {
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Warn("Error closing Discord bot")
		}
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Warn("Error closing event sink")
		}
	}

	log.Info("Closing database connection...")
	st.close()

	log.Info("Shutdown completed")
	return runErr
}
