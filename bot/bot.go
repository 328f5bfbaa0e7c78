package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"cantina/events"
	"cantina/game"
	"cantina/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

type Bot struct {
	config      Config
	session     *discordgo.Session
	economy     service.EconomyService
	casino      service.CasinoService
	elimination *game.EliminationManager
	eventBus    *events.Bus
}

func New(config Config, economy service.EconomyService, casino service.CasinoService, elimination *game.EliminationManager, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:      config,
		session:     dg,
		economy:     economy,
		casino:      casino,
		elimination: elimination,
		eventBus:    eventBus,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.handleComponentInteractions)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Turn skips happen on a timer, with no interaction to respond to, so the
	// bus is the only way the channel learns about them.
	eventBus.Subscribe(events.EventTypeEliminationTurnSkip, func(ctx context.Context, event events.Event) {
		if skip, ok := event.(events.EliminationTurnSkipEvent); ok {
			bot.announceTurnSkip(skip)
		}
	})
	eventBus.Subscribe(events.EventTypeEliminationGameClosed, func(ctx context.Context, event events.Event) {
		if closed, ok := event.(events.EliminationGameClosedEvent); ok {
			log.WithFields(log.Fields{
				"channelID": closed.ChannelID,
				"winner":    closed.Winner,
				"cancelled": closed.Cancelled,
			}).Debug("Showdown closed")
		}
	})

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "play":
		b.handlePlay(s, i)
	case "profile":
		b.handleProfile(s, i)
	case "jobs":
		b.handleJobs(s, i)
	case "apply":
		b.handleApply(s, i)
	case "work":
		b.handleWork(s, i)
	case "heal":
		b.handleHeal(s, i)
	case "history":
		b.handleHistory(s, i)
	case "roulette":
		b.handleRoulette(s, i)
	case "blackjack":
		b.handleBlackjackCommand(s, i)
	case "roll":
		b.handleRoll(s, i)
	case "showdown":
		b.handleShowdownCommand(s, i)
	}
}

func (b *Bot) handleComponentInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "bj_"):
		b.handleBlackjackInteraction(s, i, customID)
	case strings.HasPrefix(customID, "showdown_"):
		b.handleShowdownInteraction(s, i, customID)
	case strings.HasPrefix(customID, "jobs_page_"):
		b.handleJobsPage(s, i, customID)
	}
}

// announceTurnSkip posts the timer-driven turn pass to the game's channel.
func (b *Bot) announceTurnSkip(skip events.EliminationTurnSkipEvent) {
	message := fmt.Sprintf("⏰ <@%s> took too long and loses the turn. <@%s>, you're up! Respond %s.",
		skip.Skipped, skip.Next, FormatDiscordTimestamp(skip.Deadline, "R"))
	if _, err := b.session.ChannelMessageSend(skip.ChannelID, message); err != nil {
		log.WithFields(log.Fields{
			"channelID": skip.ChannelID,
			"error":     err,
		}).Error("Failed to announce turn skip")
	}
}

func (b *Bot) respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error responding to interaction: %v", err)
	}
}
