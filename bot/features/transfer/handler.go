package transfer

import (
	"context"

	"ledger/bot/common"
	"ledger/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleSend(s *discordgo.Session, i *discordgo.InteractionCreate) {
	req, ok := parseSendOptions(i.ApplicationCommandData().Options)
	if !ok {
		common.RespondWithError(s, i, "Please provide sender, receiver and amount.")
		return
	}

	result, err := f.transferService.Transfer(context.Background(), req)
	if err != nil {
		log.WithFields(log.Fields{
			"sender_id":   req.SenderID,
			"receiver_id": req.ReceiverID,
			"amount":      req.Amount,
			"error":       err,
		}).Info("Transfer rejected")
		common.RespondWithError(s, i, common.FormatError(err))
		return
	}

	// Always ephemeral: the command line carried a password
	common.RespondWithMessage(s, i, common.FormatTransferResult(result), true)
}

// parseSendOptions reports false when a required option is missing
func parseSendOptions(options []*discordgo.ApplicationCommandInteractionDataOption) (models.TransferRequest, bool) {
	var (
		req                               models.TransferRequest
		hasSender, hasReceiver, hasAmount bool
	)
	for _, opt := range options {
		switch opt.Name {
		case "sender":
			req.SenderID = opt.IntValue()
			hasSender = true
		case "receiver":
			req.ReceiverID = opt.IntValue()
			hasReceiver = true
		case "amount":
			req.Amount = opt.IntValue()
			hasAmount = true
		case "password":
			req.Credential = opt.StringValue()
		}
	}

	return req, hasSender && hasReceiver && hasAmount
}
