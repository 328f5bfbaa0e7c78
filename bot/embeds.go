package bot

import (
	"fmt"
	"strings"

	"cantina/game"
	"cantina/models"

	"github.com/bwmarrin/discordgo"
)

const (
	colorGold  = 0xF1C40F
	colorGreen = 0x2ECC71
	colorRed   = 0xE74C3C
	colorBlue  = 0x3498DB
	colorGray  = 0x95A5A6
)

func buildProfileEmbed(displayName string, profile *models.Profile) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📇 %s", displayName),
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💰 Balance", Value: fmt.Sprintf("%s coins", FormatBalance(profile.Balance)), Inline: true},
			{Name: "⭐ Experience", Value: FormatBalance(profile.Experience), Inline: true},
			{Name: "❤️ Health", Value: fmt.Sprintf("%d/%d", profile.Health, models.MaxHealth), Inline: true},
		},
	}

	job := "Unemployed"
	if profile.Job != "" {
		job = profile.Job
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "💼 Job", Value: job, Inline: true,
	})

	if profile.Sick() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "🤒 Condition", Value: profile.Disease, Inline: true,
		})
	}
	if profile.LastWorkedAt != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "🕐 Last shift", Value: FormatDiscordTimestamp(*profile.LastWorkedAt, "R"), Inline: true,
		})
	}
	return embed
}

// jobsPageSize is how many jobs a single job-board page shows.
const jobsPageSize = 8

func jobsPageCount(total int) int {
	if total == 0 {
		return 1
	}
	return (total + jobsPageSize - 1) / jobsPageSize
}

func buildJobsEmbed(jobs []*models.Job, page int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "💼 Job Board",
		Color: colorGold,
	}
	if len(jobs) == 0 {
		embed.Description = "The job board is empty right now. Check back later."
		return embed
	}

	pages := jobsPageCount(len(jobs))
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	start := page * jobsPageSize
	end := start + jobsPageSize
	if end > len(jobs) {
		end = len(jobs)
	}

	var sb strings.Builder
	for _, job := range jobs[start:end] {
		name := job.Name
		if name == "" {
			name = job.Slug
		}
		fmt.Fprintf(&sb, "%s **%s**", job.Emoji, name)
		if job.Level != "" {
			fmt.Fprintf(&sb, " · %s", job.Level)
		}
		fmt.Fprintf(&sb, " · needs %s XP", FormatBalance(job.RequiredExperience))
		if job.Salary != nil {
			fmt.Fprintf(&sb, " · pays %s coins", FormatBalance(*job.Salary))
		}
		sb.WriteString("\n")
	}
	embed.Description = sb.String()
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d/%d · Apply with /apply", page+1, pages),
	}
	return embed
}

// jobsPageComponents returns the pager row, or nothing for a single page.
func jobsPageComponents(page, pages int) []discordgo.MessageComponent {
	if pages <= 1 {
		return []discordgo.MessageComponent{}
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("jobs_page_%d", page-1),
					Disabled: page == 0,
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("jobs_page_%d", page+1),
					Disabled: page == pages-1,
				},
			},
		},
	}
}

func buildWorkEmbed(userID string, outcome *models.WorkOutcome) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{}

	switch outcome.Branch {
	case models.WorkNormal:
		embed.Title = "🛠️ Shift complete"
		embed.Color = colorGreen
		embed.Description = fmt.Sprintf("<@%s> earned **%s coins** and **%d XP**.",
			userID, FormatBalance(outcome.Pay), outcome.XPGained)
		if outcome.DiseaseCleared {
			embed.Description += "\nYou finally shook off that illness."
		}
	case models.WorkReduced:
		embed.Title = "🥱 Overtime shift"
		embed.Color = colorGold
		embed.Description = fmt.Sprintf(
			"<@%s> went back too soon (%.0fh of rest) and earned only **%s coins** and **%d XP**.",
			userID, outcome.HoursSince, FormatBalance(outcome.Pay), outcome.XPGained)
	case models.WorkSick:
		embed.Title = "🤒 That shift went badly"
		embed.Color = colorRed
		embed.Description = fmt.Sprintf(
			"<@%s> pushed too hard and caught **%s**: **-%d health**, **%s coins** in treatment, **%d XP**.",
			userID, outcome.Disease, outcome.HealthLost, FormatBalance(outcome.TreatmentCost), outcome.XPGained)
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "💰 Balance", Value: fmt.Sprintf("%s coins", FormatBalance(outcome.NewBalance)), Inline: true},
		{Name: "⭐ Experience", Value: FormatBalance(outcome.NewExperience), Inline: true},
		{Name: "❤️ Health", Value: fmt.Sprintf("%d/%d", outcome.NewHealth, models.MaxHealth), Inline: true},
	}
	return embed
}

func buildHistoryEmbed(entries []*models.BalanceHistory) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🧾 Recent balance changes",
		Color: colorGray,
	}
	if len(entries) == 0 {
		embed.Description = "No transactions yet. Go earn some coins!"
		return embed
	}

	var sb strings.Builder
	for _, entry := range entries {
		sign := "+"
		if entry.ChangeAmount < 0 {
			sign = ""
		}
		fmt.Fprintf(&sb, "%s · **%s%s** · %s → %s coins\n",
			FormatDiscordTimestamp(entry.CreatedAt, "R"),
			sign, FormatBalance(entry.ChangeAmount),
			string(entry.TransactionType), FormatBalance(entry.BalanceAfter))
	}
	embed.Description = sb.String()
	return embed
}

func buildBlackjackEmbed(view *game.BlackjackView) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🃏 Blackjack",
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   fmt.Sprintf("Your hand (%d)", view.PlayerTotal),
				Value:  formatHand(view.PlayerHand),
				Inline: true,
			},
		},
	}

	if view.Over {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Dealer (%d)", view.DealerTotal),
			Value:  formatHand(view.DealerHand),
			Inline: true,
		})
		switch view.Result {
		case game.ResultWin:
			embed.Color = colorGreen
			embed.Description = fmt.Sprintf("**You win!** **%s coins** come back to you.", FormatBalance(view.Payout))
		case game.ResultDealerBust:
			embed.Color = colorGreen
			embed.Description = fmt.Sprintf("**Dealer busts!** **%s coins** come back to you.", FormatBalance(view.Payout))
		case game.ResultPush:
			embed.Color = colorGray
			embed.Description = "**Push.** Your bet is returned."
		case game.ResultBust:
			embed.Color = colorRed
			embed.Description = fmt.Sprintf("**Bust!** You lose **%s coins**.", FormatBalance(view.Bet))
		default:
			embed.Color = colorRed
			embed.Description = fmt.Sprintf("**Dealer wins.** You lose **%s coins**.", FormatBalance(view.Bet))
		}
	} else {
		embed.Color = colorBlue
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Dealer shows",
			Value:  formatHand(view.DealerHand) + " 🂠",
			Inline: true,
		})
		embed.Description = fmt.Sprintf("Bet: **%s coins**", FormatBalance(view.Bet))
	}
	return embed
}

func buildShowdownLobbyEmbed(snap *game.EliminationSnapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🔫 Showdown lobby",
		Color:       colorGold,
		Description: fmt.Sprintf("<@%s> opened a showdown. One survivor takes the glory.", snap.Initiator),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  fmt.Sprintf("Players (%d)", len(snap.Players)),
				Value: formatPlayerList(snap.Players),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Needs at least 2 players to start"},
	}
	return embed
}

func buildShowdownRunningEmbed(snap *game.EliminationSnapshot) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🔫 Showdown",
		Color: colorRed,
		Description: fmt.Sprintf("The cylinder is loaded. <@%s> goes first! Respond %s.",
			snap.Turn, FormatDiscordTimestamp(snap.Deadline, "R")),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  fmt.Sprintf("Players (%d)", len(snap.Players)),
				Value: formatPlayerList(snap.Players),
			},
		},
	}
}

func formatHand(hand []models.Card) string {
	if len(hand) == 0 {
		return "—"
	}
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = fmt.Sprintf("`%s`", c)
	}
	return strings.Join(parts, " ")
}

func formatPlayerList(players []string) string {
	if len(players) == 0 {
		return "Nobody yet"
	}
	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = fmt.Sprintf("<@%s>", p)
	}
	return strings.Join(parts, ", ")
}
