package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"cantina/models"
	"cantina/service"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	profile, err := b.economy.Register(ctx, userID)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	b.respond(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("🎉 Welcome, <@%s>! Your profile is ready with **%d** health. Check out `/jobs` to start earning.",
			userID, profile.Health),
	})
}

func (b *Bot) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID := interactionUserID(i)
	targetID := userID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			if u := opt.UserValue(s); u != nil {
				targetID = u.ID
			}
		}
	}

	profile, err := b.economy.Profile(ctx, targetID)
	if err != nil {
		if targetID != userID && err == service.ErrNotRegistered {
			b.respondWithError(s, i, "That player hasn't joined yet.")
			return
		}
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	displayName := GetDisplayName(s, i.GuildID, targetID)
	b.respond(s, i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{buildProfileEmbed(displayName, profile)},
	})
}

func (b *Bot) handleJobs(s *discordgo.Session, i *discordgo.InteractionCreate) {
	jobs, err := b.economy.Jobs(context.Background())
	if err != nil {
		log.Errorf("Error listing jobs: %v", err)
		b.respondWithError(s, i, "Unable to load the job board. Please try again.")
		return
	}

	b.respond(s, i, &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{buildJobsEmbed(jobs, 0)},
		Components: jobsPageComponents(0, jobsPageCount(len(jobs))),
	})
}

// handleJobsPage re-renders the job board at the page encoded in the button's
// custom ID. The catalog is re-read, so a stale page clamps instead of
// erroring.
func (b *Bot) handleJobsPage(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	page, err := strconv.Atoi(strings.TrimPrefix(customID, "jobs_page_"))
	if err != nil {
		return
	}

	jobs, err := b.economy.Jobs(context.Background())
	if err != nil {
		log.Errorf("Error listing jobs: %v", err)
		b.respondWithError(s, i, "Unable to load the job board. Please try again.")
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{buildJobsEmbed(jobs, page)},
			Components: jobsPageComponents(page, jobsPageCount(len(jobs))),
		},
	})
	if err != nil {
		log.Errorf("Error updating job board: %v", err)
	}
}

func (b *Bot) handleApply(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "job" {
			query = opt.StringValue()
		}
	}

	outcome, err := b.economy.ApplyForJob(ctx, userID, query)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	if outcome.Hired {
		b.respond(s, i, &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("🤝 Congratulations, <@%s>! You're now a **%s** %s.",
				userID, outcome.Job.Name, outcome.Job.Emoji),
		})
		return
	}
	b.respond(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("📄 The **%s** position turned you down. Gain some experience and try again.",
			outcome.Job.Name),
	})
}

func (b *Bot) handleWork(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	outcome, err := b.economy.Work(ctx, userID)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	b.respond(s, i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{buildWorkEmbed(userID, outcome)},
	})
}

func (b *Bot) handleHeal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	amount := 0
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "amount" {
			amount = int(opt.IntValue())
		}
	}

	outcome, err := b.economy.Heal(ctx, userID, amount)
	if err != nil {
		b.respondWithError(s, i, userErrorMessage(err))
		return
	}

	message := fmt.Sprintf("💊 Restored **%d** health for **%s coins**. You're at **%d/%d** with **%s coins** left.",
		outcome.Healed, FormatBalance(outcome.Cost), outcome.NewHealth, models.MaxHealth, FormatBalance(outcome.NewBalance))
	if outcome.DiseaseCleared {
		message += " The illness is gone!"
	}
	b.respond(s, i, &discordgo.InteractionResponseData{Content: message})
}

func (b *Bot) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	entries, err := b.economy.History(ctx, userID, 10)
	if err != nil {
		log.Errorf("Error loading history for %s: %v", userID, err)
		b.respondWithError(s, i, "Unable to load your history. Please try again.")
		return
	}

	b.respond(s, i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{buildHistoryEmbed(entries)},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}
