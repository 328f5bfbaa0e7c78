package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cantina/game"
	"cantina/models"
)

type casinoFixture struct {
	profiles  *MockProfileRepository
	history   *MockBalanceHistoryRepository
	publisher *capturePublisher
	clock     time.Time
	svc       CasinoService
}

func newCasinoFixture(t *testing.T, seed int64, opts ...CasinoOption) *casinoFixture {
	t.Helper()
	f := &casinoFixture{
		profiles:  NewMockProfileRepository(),
		history:   &MockBalanceHistoryRepository{},
		publisher: &capturePublisher{},
		clock:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	opts = append([]CasinoOption{
		WithCasinoRand(rand.New(rand.NewSource(seed))),
		WithCasinoClock(func() time.Time { return f.clock }),
	}, opts...)
	f.svc = NewCasinoService(f.profiles, f.history, f.publisher, opts...)
	return f
}

func (f *casinoFixture) seedPlayer(balance int64) *models.Profile {
	p := models.NewProfile()
	p.Balance = balance
	f.profiles.Seed("u1", p)
	f.profiles.On("Update", mock.Anything, "u1").Return(nil)
	f.history.On("Record", mock.Anything, mock.Anything).Return(nil)
	return p
}

func TestRouletteRejectsBadInput(t *testing.T) {
	f := newCasinoFixture(t, 1)

	_, err := f.svc.SpinRoulette(context.Background(), "u1", "red", 0)
	assert.ErrorIs(t, err, ErrInvalidBet)
	_, err = f.svc.SpinRoulette(context.Background(), "u1", "red", -5)
	assert.ErrorIs(t, err, ErrInvalidBet)
	_, err = f.svc.SpinRoulette(context.Background(), "u1", "green", 10)
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestRouletteInsufficientFunds(t *testing.T) {
	f := newCasinoFixture(t, 2)
	p := f.seedPlayer(5)

	_, err := f.svc.SpinRoulette(context.Background(), "u1", "red", 10)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(5), p.Balance, "a failed bet deducts nothing")
}

func TestRouletteBookkeeping(t *testing.T) {
	f := newCasinoFixture(t, 3)
	p := f.seedPlayer(1_000_000)

	wins, losses := 0, 0
	for i := 0; i < 50; i++ {
		before := p.Balance
		outcome, err := f.svc.SpinRoulette(context.Background(), "u1", "red", 10)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, outcome.Number, 0)
		assert.LessOrEqual(t, outcome.Number, 36)
		switch {
		case outcome.Number == 0:
			assert.Equal(t, "zero", outcome.Color)
		case redNumbers[outcome.Number]:
			assert.Equal(t, "red", outcome.Color)
		default:
			assert.Equal(t, "black", outcome.Color)
		}

		if outcome.Won {
			wins++
			assert.Equal(t, int64(20), outcome.Payout, "an even-money win returns twice the bet")
			assert.Equal(t, before+10, outcome.NewBalance)
		} else {
			losses++
			assert.Equal(t, int64(0), outcome.Payout)
			assert.Equal(t, before-10, outcome.NewBalance)
		}
		assert.Equal(t, outcome.NewBalance, p.Balance)
	}
	assert.Positive(t, wins)
	assert.Positive(t, losses)
}

func TestRouletteZeroPaysThirtySix(t *testing.T) {
	// Spin until zero hits; betting on zero wins only then.
	f := newCasinoFixture(t, 4)
	p := f.seedPlayer(1_000_000)

	for i := 0; i < 500; i++ {
		before := p.Balance
		outcome, err := f.svc.SpinRoulette(context.Background(), "u1", "zero", 10)
		require.NoError(t, err)
		if outcome.Won {
			assert.Equal(t, 0, outcome.Number)
			assert.Equal(t, int64(360), outcome.Payout)
			assert.Equal(t, before+350, outcome.NewBalance)
			return
		}
		assert.Equal(t, before-10, outcome.NewBalance)
	}
	t.Fatal("zero never hit in 500 spins")
}

func TestBlackjackStartDeductsBet(t *testing.T) {
	f := newCasinoFixture(t, 5)
	p := f.seedPlayer(100)

	view, err := f.svc.StartBlackjack(context.Background(), "u1", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(70), p.Balance)
	assert.Len(t, view.PlayerHand, 2)
	assert.False(t, view.Over)
}

func TestBlackjackOneTablePerUser(t *testing.T) {
	f := newCasinoFixture(t, 6)
	f.seedPlayer(100)

	_, err := f.svc.StartBlackjack(context.Background(), "u1", 10)
	require.NoError(t, err)
	_, err = f.svc.StartBlackjack(context.Background(), "u1", 10)
	assert.ErrorIs(t, err, ErrGameInProgress)
}

func TestBlackjackExpiredTableForfeitsAndReopens(t *testing.T) {
	f := newCasinoFixture(t, 7)
	p := f.seedPlayer(100)

	_, err := f.svc.StartBlackjack(context.Background(), "u1", 10)
	require.NoError(t, err)

	f.clock = f.clock.Add(11 * time.Minute)
	_, err = f.svc.StartBlackjack(context.Background(), "u1", 10)
	require.NoError(t, err)
	// Both bets are gone; the abandoned table paid nothing back.
	assert.Equal(t, int64(80), p.Balance)

	// The forfeited bet still shows up in the audit trail, covering the
	// deduction taken at the first deal.
	require.Len(t, f.history.entries, 1)
	entry := f.history.entries[0]
	assert.Equal(t, models.TransactionTypeBlackjackForfeit, entry.TransactionType)
	assert.Equal(t, int64(100), entry.BalanceBefore)
	assert.Equal(t, int64(90), entry.BalanceAfter)
	assert.Equal(t, int64(-10), entry.ChangeAmount)
}

func TestBlackjackActionWithoutTable(t *testing.T) {
	f := newCasinoFixture(t, 8)

	_, err := f.svc.BlackjackAction(context.Background(), "u1", game.ActionHit)
	assert.ErrorIs(t, err, ErrNoActiveGame)
}

func TestBlackjackStandSettles(t *testing.T) {
	f := newCasinoFixture(t, 9)
	p := f.seedPlayer(1000)

	_, err := f.svc.StartBlackjack(context.Background(), "u1", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(900), p.Balance)

	view, err := f.svc.BlackjackAction(context.Background(), "u1", game.ActionStand)
	require.NoError(t, err)
	assert.True(t, view.Over)
	assert.GreaterOrEqual(t, view.DealerTotal, 17)
	assert.Equal(t, int64(900)+view.Payout, p.Balance)

	// The table is gone once settled.
	_, err = f.svc.BlackjackAction(context.Background(), "u1", game.ActionStand)
	assert.ErrorIs(t, err, ErrNoActiveGame)
}

func TestBlackjackDoubleNeedsFunds(t *testing.T) {
	f := newCasinoFixture(t, 10)
	p := f.seedPlayer(100)

	_, err := f.svc.StartBlackjack(context.Background(), "u1", 80)
	require.NoError(t, err)
	assert.Equal(t, int64(20), p.Balance)

	_, err = f.svc.BlackjackAction(context.Background(), "u1", game.ActionDouble)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// The table survives the failed double and can still be played out.
	view, err := f.svc.BlackjackAction(context.Background(), "u1", game.ActionStand)
	require.NoError(t, err)
	assert.True(t, view.Over)
	assert.Equal(t, int64(80), view.Bet, "bet unchanged by the failed double")
}

func TestBlackjackDoubleStakesSecondBet(t *testing.T) {
	f := newCasinoFixture(t, 11)
	p := f.seedPlayer(1000)

	_, err := f.svc.StartBlackjack(context.Background(), "u1", 100)
	require.NoError(t, err)

	view, err := f.svc.BlackjackAction(context.Background(), "u1", game.ActionDouble)
	require.NoError(t, err)
	assert.True(t, view.Over, "a double always ends the hand")
	assert.Equal(t, int64(200), view.Bet)
	// 1000 staked down to 800, plus whatever the hand paid.
	assert.Equal(t, int64(800)+view.Payout, p.Balance)
}

func TestBlackjackPlayOutManyHands(t *testing.T) {
	f := newCasinoFixture(t, 12)
	p := f.seedPlayer(1_000_000)

	for i := 0; i < 30; i++ {
		before := p.Balance
		view, err := f.svc.StartBlackjack(context.Background(), "u1", 50)
		require.NoError(t, err)

		// Hit to at least 17, then stand, like the dealer.
		for !view.Over && view.PlayerTotal < 17 {
			view, err = f.svc.BlackjackAction(context.Background(), "u1", game.ActionHit)
			require.NoError(t, err)
		}
		if !view.Over {
			view, err = f.svc.BlackjackAction(context.Background(), "u1", game.ActionStand)
			require.NoError(t, err)
		}

		require.True(t, view.Over)
		switch view.Result {
		case game.ResultWin, game.ResultDealerBust:
			assert.Equal(t, before+50, p.Balance)
		case game.ResultPush:
			assert.Equal(t, before, p.Balance)
		default:
			assert.Equal(t, before-50, p.Balance)
		}
	}
}
