package accounts

import (
	"context"
	"fmt"

	"ledger/bot/common"
	"ledger/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleList answers /accounts
func (f *Feature) HandleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	summaries, err := f.accountService.ListAccounts(context.Background())
	if err != nil {
		log.Errorf("Error listing accounts: %v", err)
		common.RespondWithError(s, i, common.FormatError(err))
		return
	}

	common.RespondWithMessage(s, i, common.FormatAccountList(summaries), true)
}

// HandleGet answers /account id
func (f *Feature) HandleGet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var id int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "id" {
			id = opt.IntValue()
		}
	}

	account, err := f.accountService.GetAccount(context.Background(), id)
	if err != nil {
		log.WithFields(log.Fields{
			"account_id": id,
			"error":      err,
		}).Debug("Account lookup failed")
		common.RespondWithError(s, i, common.FormatError(err))
		return
	}

	common.RespondWithEmbed(s, i, AccountEmbed(account), true)
}

// AccountEmbed renders an account without its credential
func AccountEmbed(account *models.Account) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Username", Value: account.Username, Inline: true},
		{Name: "Balance", Value: common.FormatBalance(account.Balance), Inline: true},
	}
	if account.Contact != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Email", Value: account.Contact})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("#%d %s", account.ID, account.Name),
		Color:  0x2ecc71,
		Fields: fields,
	}
}
