package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Create your profile and start playing",
		},
		{
			Name:        "profile",
			Description: "Show a player's profile",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to look up (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "jobs",
			Description: "List the available jobs",
		},
		{
			Name:        "apply",
			Description: "Apply for a job",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "job",
					Description: "Job name from the /jobs list",
					Required:    true,
				},
			},
		},
		{
			Name:        "work",
			Description: "Work a shift at your job",
		},
		{
			Name:        "heal",
			Description: "Pay the doctor to restore health",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Health points to restore (defaults to a full heal)",
					Required:    false,
				},
			},
		},
		{
			Name:        "history",
			Description: "Show your recent balance changes",
		},
		{
			Name:        "roulette",
			Description: "Bet on a roulette spin",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "choice",
					Description: "Where to put your money",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Red (pays 2x)", Value: "red"},
						{Name: "Black (pays 2x)", Value: "black"},
						{Name: "Zero (pays 36x)", Value: "zero"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount to bet",
					Required:    true,
				},
			},
		},
		{
			Name:        "blackjack",
			Description: "Play a hand of blackjack against the dealer",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount to bet",
					Required:    true,
				},
			},
		},
		{
			Name:        "roll",
			Description: "Roll a die",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "die",
					Description: "Which die to roll",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "d6", Value: "d6"},
						{Name: "d10", Value: "d10"},
						{Name: "d20", Value: "d20"},
					},
				},
			},
		},
		{
			Name:        "showdown",
			Description: "Last-one-standing showdown for this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "new",
					Description: "Open a showdown lobby in this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join the open lobby",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Leave the lobby before the game starts",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start the game with the joined players",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "shoot",
					Description: "Pull the trigger on your turn",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel the channel's game",
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
