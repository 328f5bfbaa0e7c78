package bot

import (
	"context"
	"fmt"
	"math/rand"

	"cantina/game"

	"github.com/bwmarrin/discordgo"
)

// dieSides maps the /roll choices to their face count.
var dieSides = map[string]int{"d6": 6, "d10": 10, "d20": 20}

func (b *Bot) handleRoll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var die string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "die" {
			die = opt.StringValue()
		}
	}

	sides, ok := dieSides[die]
	if !ok {
		b.respondWithError(s, i, "Pick d6, d10 or d20.")
		return
	}

	result := rand.Intn(sides) + 1
	b.respond(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("🎲 <@%s> rolls a **%s**... **%d**!", interactionUserID(i), die, result),
	})
}

func (b *Bot) handleRoulette(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	var choice string
	var bet int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "choice":
			choice = opt.StringValue()
		case "bet":
			bet = opt.IntValue()
		}
	}

	outcome, err := b.casino.SpinRoulette(ctx, userID, choice, bet)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	pocket := fmt.Sprintf("%s %d", colorEmoji(outcome.Color), outcome.Number)
	var message string
	if outcome.Won {
		message = fmt.Sprintf("🎡 The ball lands on **%s**. You win **%s coins**! New balance: **%s coins**.",
			pocket, FormatBalance(outcome.Payout-outcome.Bet), FormatBalance(outcome.NewBalance))
	} else {
		message = fmt.Sprintf("🎡 The ball lands on **%s**. You lose **%s coins**. New balance: **%s coins**.",
			pocket, FormatBalance(outcome.Bet), FormatBalance(outcome.NewBalance))
	}
	b.respond(s, i, &discordgo.InteractionResponseData{Content: message})
}

func (b *Bot) handleBlackjackCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	var bet int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "bet" {
			bet = opt.IntValue()
		}
	}

	view, err := b.casino.StartBlackjack(ctx, userID, bet)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	b.respond(s, i, &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{buildBlackjackEmbed(view)},
		Components: blackjackComponents(view),
	})
}

func (b *Bot) handleBlackjackInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()
	userID := interactionUserID(i)

	var action game.BlackjackAction
	switch customID {
	case "bj_hit":
		action = game.ActionHit
	case "bj_stand":
		action = game.ActionStand
	case "bj_double":
		action = game.ActionDouble
	default:
		return
	}

	view, err := b.casino.BlackjackAction(ctx, userID, action)
	if err != nil {
		// Someone else's buttons, a settled hand, or a failed double.
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{buildBlackjackEmbed(view)},
			Components: blackjackComponents(view),
		},
	})
	if err != nil {
		b.respondWithError(s, i, "Unable to update the table. Please try again.")
	}
}

// blackjackComponents returns the action row for an open hand, or no
// components once the hand is over.
func blackjackComponents(view *game.BlackjackView) []discordgo.MessageComponent {
	if view.Over {
		return []discordgo.MessageComponent{}
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Hit", Style: discordgo.PrimaryButton, CustomID: "bj_hit"},
				discordgo.Button{Label: "Stand", Style: discordgo.SecondaryButton, CustomID: "bj_stand"},
				discordgo.Button{Label: "Double", Style: discordgo.DangerButton, CustomID: "bj_double", Disabled: !view.CanDouble},
			},
		},
	}
}

func colorEmoji(color string) string {
	switch color {
	case "red":
		return "🔴"
	case "black":
		return "⚫"
	default:
		return "🟢"
	}
}
