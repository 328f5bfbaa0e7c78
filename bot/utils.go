package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cantina/game"
	"cantina/service"

	"github.com/bwmarrin/discordgo"
)

// FormatBalance formats a coin amount with thousand separators
func FormatBalance(balance int64) string {
	str := fmt.Sprintf("%d", balance)
	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	n := len(str)
	if n > 3 {
		var result strings.Builder
		for i, digit := range str {
			if i > 0 && (n-i)%3 == 0 {
				result.WriteRune(',')
			}
			result.WriteRune(digit)
		}
		str = result.String()
	}
	if negative {
		return "-" + str
	}
	return str
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// GetDisplayName resolves a user's guild nickname, falling back to their
// username and finally to the raw ID.
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	if guildID != "" {
		if member, err := s.State.Member(guildID, userID); err == nil && member != nil {
			if member.Nick != "" {
				return member.Nick
			}
			if member.User != nil {
				return member.User.Username
			}
		}
		if member, err := s.GuildMember(guildID, userID); err == nil && member != nil {
			if member.Nick != "" {
				return member.Nick
			}
			if member.User != nil {
				return member.User.Username
			}
		}
	}
	if user, err := s.User(userID); err == nil && user != nil {
		return user.Username
	}
	return userID
}

// interactionUserID returns the acting user's ID for both guild and DM
// interactions.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// userErrorMessage maps domain errors to user-facing text. Anything
// unrecognized gets a generic retry message rather than an internal error
// string.
func userErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNotRegistered):
		return "You don't have a profile yet. Use `/play` to create one."
	case errors.Is(err, service.ErrAlreadyRegistered):
		return "You already have a profile. Use `/profile` to see it."
	case errors.Is(err, service.ErrInsufficientFunds):
		return "You can't afford that. Check `/profile` for your balance."
	case errors.Is(err, service.ErrNoJob):
		return "You don't have a job. Browse `/jobs` and `/apply` for one."
	case errors.Is(err, service.ErrUnknownJob):
		return "That job isn't on the board. See `/jobs` for the list."
	case errors.Is(err, service.ErrAlreadyEmployed):
		return "You already hold that job."
	case errors.Is(err, service.ErrHealthFull):
		return "You're already at full health."
	case errors.Is(err, service.ErrInvalidBet):
		return "The bet must be a positive amount."
	case errors.Is(err, service.ErrInvalidChoice):
		return "Pick red, black or zero."
	case errors.Is(err, service.ErrGameInProgress):
		return "You already have a hand in play. Finish it first."
	case errors.Is(err, service.ErrNoActiveGame):
		return "You don't have a hand in play."
	case errors.Is(err, game.ErrGameExists):
		return "There's already a showdown in this channel."
	case errors.Is(err, game.ErrNoGame):
		return "No showdown is open in this channel. Use `/showdown new`."
	case errors.Is(err, game.ErrGameNotOpen):
		return "The lobby is closed; the game has already started."
	case errors.Is(err, game.ErrGameNotRunning):
		return "The game hasn't started yet."
	case errors.Is(err, game.ErrAlreadyJoined):
		return "You're already in."
	case errors.Is(err, game.ErrNotJoined):
		return "You're not in the lobby."
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "At least 2 players are needed to start."
	case errors.Is(err, game.ErrNotAParticipant):
		return "You're not part of this game."
	case errors.Is(err, game.ErrNotYourTurn):
		return "It's not your turn."
	case errors.Is(err, game.ErrHandOver), errors.Is(err, game.ErrCannotDouble):
		return "That move isn't available right now."
	default:
		return "Something went wrong. Please try again."
	}
}
