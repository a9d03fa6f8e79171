package bot

import (
	"fmt"

	"ledger/bot/features/accounts"
	"ledger/bot/features/transfer"
	"ledger/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // Empty registers commands globally
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	accounts *accounts.Feature
	transfer *transfer.Feature
	commands []*discordgo.ApplicationCommand
}

func New(config Config, accountService service.AccountService, transferService service.TransferService) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:   config,
		session:  dg,
		accounts: accounts.New(accountService),
		transfer: transfer.New(transferService),
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.WithField("guild_id", config.GuildID).Info("Discord bot connected")
	return bot, nil
}

// Close removes registered commands and closes the gateway connection
func (b *Bot) Close() error {
	for _, cmd := range b.commands {
		if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
			log.WithFields(log.Fields{
				"command": cmd.Name,
				"error":   err,
			}).Warn("Failed to delete slash command")
		}
	}
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case commandAccounts:
		b.accounts.HandleList(s, i)
	case commandAccount:
		b.accounts.HandleGet(s, i)
	case commandSend:
		b.transfer.HandleCommand(s, i)
	}
}
