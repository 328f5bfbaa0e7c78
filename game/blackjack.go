package game

import (
	"errors"
	"math/rand"

	"cantina/models"
)

var (
	ErrHandOver     = errors.New("hand is already over")
	ErrCannotDouble = errors.New("double down is only available on the first two cards")
)

// BlackjackAction is a player decision on an open table.
type BlackjackAction string

const (
	ActionHit    BlackjackAction = "hit"
	ActionStand  BlackjackAction = "stand"
	ActionDouble BlackjackAction = "double"
)

// BlackjackResult is the terminal outcome of a hand.
type BlackjackResult string

const (
	ResultPlaying    BlackjackResult = ""
	ResultBust       BlackjackResult = "bust"
	ResultDealerBust BlackjackResult = "dealer_bust"
	ResultWin        BlackjackResult = "win"
	ResultLose       BlackjackResult = "lose"
	ResultPush       BlackjackResult = "push"
)

// BlackjackTable holds one player-vs-dealer hand. The table is a pure state
// machine over a single shuffled deck; money never enters this package, the
// casino service settles bets from the reported result.
type BlackjackTable struct {
	userID  string
	deck    []models.Card
	player  []models.Card
	dealer  []models.Card
	bet     int64
	doubled bool
	over    bool
	result  BlackjackResult
}

// BlackjackView is the renderable state of a table. The dealer's hole card
// stays hidden until the hand is over.
type BlackjackView struct {
	UserID       string
	PlayerHand   []models.Card
	PlayerTotal  int
	DealerHand   []models.Card // only the upcard until the hand is over
	DealerTotal  int           // upcard value until the hand is over
	Bet          int64
	Doubled      bool
	CanDouble    bool
	Over         bool
	Result       BlackjackResult
	Payout       int64 // total returned to the player when the hand is over
}

// NewBlackjackTable shuffles a deck with rng and deals the opening hands.
func NewBlackjackTable(userID string, bet int64, rng *rand.Rand) *BlackjackTable {
	deck := models.NewDeck(rng)
	t := &BlackjackTable{
		userID: userID,
		deck:   deck,
		bet:    bet,
	}
	t.player = []models.Card{t.draw(), t.draw()}
	t.dealer = []models.Card{t.draw(), t.draw()}
	return t
}

// Bet returns the current wager, doubled after a double down.
func (t *BlackjackTable) Bet() int64 { return t.bet }

func (t *BlackjackTable) draw() models.Card {
	c := t.deck[len(t.deck)-1]
	t.deck = t.deck[:len(t.deck)-1]
	return c
}

// Hit deals the player one card, busting at over 21.
func (t *BlackjackTable) Hit() error {
	if t.over {
		return ErrHandOver
	}
	t.player = append(t.player, t.draw())
	if total, _ := models.HandValue(t.player); total > 21 {
		t.over = true
		t.result = ResultBust
	}
	return nil
}

// Stand ends the player's turn and plays out the dealer.
func (t *BlackjackTable) Stand() error {
	if t.over {
		return ErrHandOver
	}
	t.resolveDealer()
	return nil
}

// Double doubles the bet, deals exactly one card and stands. Only valid on
// the opening two cards; the caller is responsible for covering the extra
// bet.
func (t *BlackjackTable) Double() error {
	if t.over {
		return ErrHandOver
	}
	if len(t.player) != 2 {
		return ErrCannotDouble
	}
	t.bet *= 2
	t.doubled = true
	t.player = append(t.player, t.draw())
	if total, _ := models.HandValue(t.player); total > 21 {
		t.over = true
		t.result = ResultBust
		return nil
	}
	t.resolveDealer()
	return nil
}

// resolveDealer draws dealer cards up to 17 and scores the hand.
func (t *BlackjackTable) resolveDealer() {
	dealerTotal, _ := models.HandValue(t.dealer)
	for dealerTotal < 17 {
		t.dealer = append(t.dealer, t.draw())
		dealerTotal, _ = models.HandValue(t.dealer)
	}
	playerTotal, _ := models.HandValue(t.player)

	t.over = true
	switch {
	case dealerTotal > 21:
		t.result = ResultDealerBust
	case playerTotal > dealerTotal:
		t.result = ResultWin
	case playerTotal < dealerTotal:
		t.result = ResultLose
	default:
		t.result = ResultPush
	}
}

// Payout returns the total credited back to the player for a finished hand:
// double the bet on a win, the bet back on a push, nothing otherwise.
func (t *BlackjackTable) Payout() int64 {
	switch t.result {
	case ResultWin, ResultDealerBust:
		return t.bet * 2
	case ResultPush:
		return t.bet
	default:
		return 0
	}
}

// View builds the renderable state of the table.
func (t *BlackjackTable) View() *BlackjackView {
	playerTotal, _ := models.HandValue(t.player)
	view := &BlackjackView{
		UserID:      t.userID,
		PlayerHand:  append([]models.Card(nil), t.player...),
		PlayerTotal: playerTotal,
		Bet:         t.bet,
		Doubled:     t.doubled,
		CanDouble:   !t.over && len(t.player) == 2,
		Over:        t.over,
		Result:      t.result,
	}
	if t.over {
		view.DealerHand = append([]models.Card(nil), t.dealer...)
		view.DealerTotal, _ = models.HandValue(t.dealer)
		view.Payout = t.Payout()
	} else {
		view.DealerHand = []models.Card{t.dealer[0]}
		view.DealerTotal = t.dealer[0].Value()
	}
	return view
}
