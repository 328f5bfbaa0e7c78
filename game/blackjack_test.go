package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/models"
)

func card(rank string) models.Card {
	return models.Card{Rank: rank, Suit: "♠"}
}

// fixedTable builds a table with a scripted deck. Cards are drawn from the
// end of the deck slice, so the script is listed in draw order and reversed.
func fixedTable(bet int64, player, dealer []models.Card, rest ...models.Card) *BlackjackTable {
	deck := make([]models.Card, 0, len(rest))
	for i := len(rest) - 1; i >= 0; i-- {
		deck = append(deck, rest[i])
	}
	return &BlackjackTable{
		userID: "u1",
		deck:   deck,
		player: player,
		dealer: dealer,
		bet:    bet,
	}
}

func TestNewTableDealsTwoAndTwo(t *testing.T) {
	table := NewBlackjackTable("u1", 100, rand.New(rand.NewSource(1)))

	view := table.View()
	assert.Equal(t, "u1", view.UserID)
	assert.Len(t, view.PlayerHand, 2)
	assert.Len(t, view.DealerHand, 1, "hole card stays hidden")
	assert.True(t, view.CanDouble)
	assert.False(t, view.Over)
	assert.Equal(t, int64(100), view.Bet)
}

func TestHitUntilBust(t *testing.T) {
	table := fixedTable(50,
		[]models.Card{card("10"), card("9")},
		[]models.Card{card("5"), card("5")},
		card("K"),
	)

	require.NoError(t, table.Hit())
	view := table.View()
	assert.True(t, view.Over)
	assert.Equal(t, ResultBust, view.Result)
	assert.Equal(t, int64(0), view.Payout)

	assert.ErrorIs(t, table.Hit(), ErrHandOver)
	assert.ErrorIs(t, table.Stand(), ErrHandOver)
	assert.ErrorIs(t, table.Double(), ErrHandOver)
}

func TestStandDealerDrawsToSeventeen(t *testing.T) {
	table := fixedTable(50,
		[]models.Card{card("10"), card("8")},
		[]models.Card{card("5"), card("6")},
		card("2"), card("4"), // dealer: 11 -> 13 -> 17
	)

	require.NoError(t, table.Stand())
	view := table.View()
	assert.True(t, view.Over)
	assert.Equal(t, 17, view.DealerTotal)
	assert.Equal(t, ResultWin, view.Result)
	assert.Equal(t, int64(100), view.Payout)
}

func TestDealerBustPays(t *testing.T) {
	table := fixedTable(50,
		[]models.Card{card("10"), card("6")},
		[]models.Card{card("10"), card("6")},
		card("10"), // dealer 16 -> 26
	)

	require.NoError(t, table.Stand())
	view := table.View()
	assert.Equal(t, ResultDealerBust, view.Result)
	assert.Equal(t, int64(100), view.Payout)
}

func TestPushReturnsBet(t *testing.T) {
	table := fixedTable(80,
		[]models.Card{card("10"), card("9")},
		[]models.Card{card("10"), card("9")},
	)

	require.NoError(t, table.Stand())
	view := table.View()
	assert.Equal(t, ResultPush, view.Result)
	assert.Equal(t, int64(80), view.Payout)
}

func TestDealerWinsTies(t *testing.T) {
	table := fixedTable(50,
		[]models.Card{card("10"), card("6")},
		[]models.Card{card("10"), card("8")},
	)

	require.NoError(t, table.Stand())
	view := table.View()
	assert.Equal(t, ResultLose, view.Result)
	assert.Equal(t, int64(0), view.Payout)
}

func TestDoubleDealsOneCardAndDoublesBet(t *testing.T) {
	table := fixedTable(50,
		[]models.Card{card("5"), card("6")},
		[]models.Card{card("10"), card("7")},
		card("10"), // player 11 -> 21
	)

	require.NoError(t, table.Double())
	view := table.View()
	assert.True(t, view.Over)
	assert.True(t, view.Doubled)
	assert.Equal(t, int64(100), view.Bet)
	assert.Len(t, view.PlayerHand, 3)
	assert.Equal(t, ResultWin, view.Result)
	assert.Equal(t, int64(200), view.Payout)
}

func TestDoubleOnlyOnOpeningHand(t *testing.T) {
	table := fixedTable(50,
		[]models.Card{card("2"), card("3")},
		[]models.Card{card("10"), card("7")},
		card("2"), card("K"),
	)

	require.NoError(t, table.Hit())
	assert.ErrorIs(t, table.Double(), ErrCannotDouble)
}

func TestSoftAceDemotion(t *testing.T) {
	total, soft := models.HandValue([]models.Card{card("A"), card("6")})
	assert.Equal(t, 17, total)
	assert.True(t, soft)

	total, soft = models.HandValue([]models.Card{card("A"), card("6"), card("10")})
	assert.Equal(t, 17, total)
	assert.False(t, soft)

	total, _ = models.HandValue([]models.Card{card("A"), card("A"), card("9")})
	assert.Equal(t, 21, total)
}
