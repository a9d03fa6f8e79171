package transfer

import (
	"ledger/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	transferService service.TransferService
}

func New(transferService service.TransferService) *Feature {
	return &Feature{
		transferService: transferService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleSend(s, i)
}
