package bot

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"cantina/game"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleShowdownCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "new":
		b.handleShowdownNew(s, i)
	case "join":
		b.handleShowdownJoin(s, i, false)
	case "leave":
		b.handleShowdownLeave(s, i, false)
	case "start":
		b.handleShowdownStart(s, i, false)
	case "shoot":
		b.handleShowdownShoot(s, i)
	case "cancel":
		b.handleShowdownCancel(s, i)
	}
}

func (b *Bot) handleShowdownInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	switch customID {
	case "showdown_join":
		b.handleShowdownJoin(s, i, true)
	case "showdown_leave":
		b.handleShowdownLeave(s, i, true)
	case "showdown_start":
		b.handleShowdownStart(s, i, true)
	case "showdown_shoot":
		b.handleShowdownShoot(s, i)
	}
}

func (b *Bot) handleShowdownNew(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)

	snap, err := b.elimination.Create(i.ChannelID, userID)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	// The initiator is in from the start.
	if joined, err := b.elimination.Join(i.ChannelID, userID); err == nil {
		snap = joined
	}

	b.respond(s, i, &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{buildShowdownLobbyEmbed(snap)},
		Components: showdownLobbyComponents(),
	})
}

func (b *Bot) handleShowdownJoin(s *discordgo.Session, i *discordgo.InteractionCreate, fromButton bool) {
	userID := interactionUserID(i)

	snap, err := b.elimination.Join(i.ChannelID, userID)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}
	b.renderShowdownLobby(s, i, snap, fromButton)
}

func (b *Bot) handleShowdownLeave(s *discordgo.Session, i *discordgo.InteractionCreate, fromButton bool) {
	userID := interactionUserID(i)

	snap, err := b.elimination.Leave(i.ChannelID, userID)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}
	b.renderShowdownLobby(s, i, snap, fromButton)
}

func (b *Bot) handleShowdownStart(s *discordgo.Session, i *discordgo.InteractionCreate, fromButton bool) {
	snap, err := b.elimination.Start(i.ChannelID)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{buildShowdownRunningEmbed(snap)},
		Components: showdownRunningComponents(),
	}
	if fromButton {
		b.updateMessage(s, i, data)
		return
	}
	b.respond(s, i, data)
}

func (b *Bot) handleShowdownShoot(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)

	result, err := b.elimination.PullTrigger(i.ChannelID, userID)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	message := formatTurnResult(result)
	data := &discordgo.InteractionResponseData{Content: message}
	if !result.Finished {
		// Keep the trigger button alive for the next player.
		data.Components = showdownRunningComponents()
	}
	b.respond(s, i, data)
}

func (b *Bot) handleShowdownCancel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)

	g, err := b.elimination.Get(i.ChannelID)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}
	if g.Snapshot().Initiator != userID {
		b.respondWithError(s, i, "Only the player who opened the game can cancel it.")
		return
	}
	if err := b.elimination.Cancel(i.ChannelID); err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	b.respond(s, i, &discordgo.InteractionResponseData{
		Content: "🚪 The showdown was called off. No winner today.",
	})
}

func (b *Bot) renderShowdownLobby(s *discordgo.Session, i *discordgo.InteractionCreate, snap *game.EliminationSnapshot, fromButton bool) {
	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{buildShowdownLobbyEmbed(snap)},
		Components: showdownLobbyComponents(),
	}
	if fromButton {
		b.updateMessage(s, i, data)
		return
	}
	b.respond(s, i, data)
}

func (b *Bot) updateMessage(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error updating showdown message: %v", err)
	}
}

func formatTurnResult(result *game.TurnResult) string {
	if !result.Hit {
		return fmt.Sprintf("😮‍💨 *click*... <@%s> lives (chamber %d of 6). <@%s>, your turn!",
			result.Shooter, result.ChamberPos, result.Next)
	}
	if result.Finished {
		if result.Winner != "" {
			return fmt.Sprintf("💥 **BANG!** <@%s> is out! 🏆 <@%s> is the last one standing!",
				result.Shooter, result.Winner)
		}
		return fmt.Sprintf("💥 **BANG!** <@%s> is out, and nobody is left.", result.Shooter)
	}
	return fmt.Sprintf("💥 **BANG!** <@%s> is out! The cylinder spins anew with %d players left. <@%s>, your turn!",
		result.Shooter, len(result.Remaining), result.Next)
}

func showdownLobbyComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Join", Style: discordgo.SuccessButton, CustomID: "showdown_join"},
				discordgo.Button{Label: "Leave", Style: discordgo.SecondaryButton, CustomID: "showdown_leave"},
				discordgo.Button{Label: "Start", Style: discordgo.DangerButton, CustomID: "showdown_start"},
			},
		},
	}
}

func showdownRunningComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Pull the trigger", Style: discordgo.DangerButton, CustomID: "showdown_shoot"},
			},
		},
	}
}
