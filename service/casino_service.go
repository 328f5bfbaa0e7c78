package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"cantina/events"
	"cantina/game"
	"cantina/models"
)

const wheelSize = 37 // European wheel, 0..36

// redNumbers are the red pockets of a European roulette wheel.
var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true,
	16: true, 18: true, 19: true, 21: true, 23: true, 25: true, 27: true,
	30: true, 32: true, 34: true, 36: true,
}

// blackjackSession is an open table plus the balance it started from, kept
// for the settlement audit entry.
type blackjackSession struct {
	table         *game.BlackjackTable
	balanceBefore int64
	createdAt     time.Time
}

type casinoService struct {
	profiles  ProfileRepository
	history   BalanceHistoryRepository
	publisher events.Publisher

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time

	// mu serializes table lookups and actions; one open table per user.
	mu       sync.Mutex
	tables   map[string]*blackjackSession
	tableTTL time.Duration
}

// CasinoOption configures a casino service.
type CasinoOption func(*casinoService)

// WithCasinoRand injects the random source. Tests use seeded sources.
func WithCasinoRand(rng *rand.Rand) CasinoOption {
	return func(s *casinoService) { s.rng = rng }
}

// WithCasinoClock injects the clock used for table expiry.
func WithCasinoClock(now func() time.Time) CasinoOption {
	return func(s *casinoService) { s.now = now }
}

// WithTableTTL overrides how long an untouched blackjack table stays open.
func WithTableTTL(d time.Duration) CasinoOption {
	return func(s *casinoService) { s.tableTTL = d }
}

// NewCasinoService creates the casino service backing the roulette and
// blackjack commands.
func NewCasinoService(profiles ProfileRepository, history BalanceHistoryRepository, publisher events.Publisher, opts ...CasinoOption) CasinoService {
	s := &casinoService{
		profiles:  profiles,
		history:   history,
		publisher: publisher,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		tables:    make(map[string]*blackjackSession),
		tableTTL:  10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *casinoService) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// SpinRoulette resolves one spin on a European wheel. The bet, the spin and
// the payout happen in one document update, so a crash can never leave a bet
// deducted with no outcome applied.
func (s *casinoService) SpinRoulette(ctx context.Context, userID, choice string, bet int64) (*models.RouletteOutcome, error) {
	if bet <= 0 {
		return nil, ErrInvalidBet
	}
	choice = strings.ToLower(strings.TrimSpace(choice))
	switch choice {
	case "red", "black", "zero":
	default:
		return nil, ErrInvalidChoice
	}

	outcome := &models.RouletteOutcome{Choice: choice, Bet: bet}
	var balanceBefore int64

	_, err := s.profiles.Update(ctx, userID, func(p *models.Profile) error {
		if p.Balance < bet {
			return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, bet, p.Balance)
		}
		balanceBefore = p.Balance
		p.Balance -= bet

		outcome.Number = s.intn(wheelSize)
		switch {
		case outcome.Number == 0:
			outcome.Color = "zero"
		case redNumbers[outcome.Number]:
			outcome.Color = "red"
		default:
			outcome.Color = "black"
		}

		if outcome.Color == choice {
			outcome.Won = true
			if choice == "zero" {
				outcome.Payout = bet * 36
			} else {
				outcome.Payout = bet * 2
			}
			p.Balance += outcome.Payout
		}
		outcome.NewBalance = p.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	txType := models.TransactionTypeRouletteLoss
	if outcome.Won {
		txType = models.TransactionTypeRouletteWin
	}
	s.recordBalanceChange(ctx, userID, balanceBefore, outcome.NewBalance, txType, map[string]any{
		"choice": choice,
		"number": outcome.Number,
		"bet":    bet,
	})

	log.WithFields(log.Fields{
		"userID": userID,
		"choice": choice,
		"number": outcome.Number,
		"won":    outcome.Won,
	}).Info("Roulette spin resolved")
	return outcome, nil
}

// StartBlackjack deals a new table for the user, deducting the bet up front.
func (s *casinoService) StartBlackjack(ctx context.Context, userID string, bet int64) (*game.BlackjackView, error) {
	if bet <= 0 {
		return nil, ErrInvalidBet
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.tables[userID]; ok {
		if s.now().Sub(session.createdAt) < s.tableTTL {
			return nil, ErrGameInProgress
		}
		// The stale table forfeits its bet. Settlement never ran, so the
		// deduction taken at the deal gets its audit entry here.
		delete(s.tables, userID)
		forfeited := session.table.Bet()
		s.recordBalanceChange(ctx, userID, session.balanceBefore, session.balanceBefore-forfeited,
			models.TransactionTypeBlackjackForfeit, map[string]any{"bet": forfeited})
		log.WithFields(log.Fields{"userID": userID, "bet": forfeited}).Warn("Expired abandoned blackjack table")
	}

	var balanceBefore int64
	_, err := s.profiles.Update(ctx, userID, func(p *models.Profile) error {
		if p.Balance < bet {
			return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, bet, p.Balance)
		}
		balanceBefore = p.Balance
		p.Balance -= bet
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	table := game.NewBlackjackTable(userID, bet, s.rng)
	s.rngMu.Unlock()

	s.tables[userID] = &blackjackSession{
		table:         table,
		balanceBefore: balanceBefore,
		createdAt:     s.now(),
	}

	log.WithFields(log.Fields{"userID": userID, "bet": bet}).Info("Blackjack table dealt")
	return table.View(), nil
}

// BlackjackAction applies one action to the user's open table and settles the
// bet when the hand finishes.
func (s *casinoService) BlackjackAction(ctx context.Context, userID string, action game.BlackjackAction) (*game.BlackjackView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.tables[userID]
	if !ok {
		return nil, ErrNoActiveGame
	}
	table := session.table

	switch action {
	case game.ActionHit:
		if err := table.Hit(); err != nil {
			return nil, err
		}
	case game.ActionStand:
		if err := table.Stand(); err != nil {
			return nil, err
		}
	case game.ActionDouble:
		if !table.View().CanDouble {
			return nil, game.ErrCannotDouble
		}
		// The double stakes a second bet equal to the first.
		extra := table.Bet()
		_, err := s.profiles.Update(ctx, userID, func(p *models.Profile) error {
			if p.Balance < extra {
				return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, extra, p.Balance)
			}
			p.Balance -= extra
			return nil
		})
		if err != nil {
			return nil, err
		}
		if err := table.Double(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown blackjack action %q", action)
	}

	view := table.View()
	if !view.Over {
		return view, nil
	}

	delete(s.tables, userID)
	return s.settleBlackjack(ctx, userID, session, view)
}

// settleBlackjack credits the payout and writes the audit entry summarizing
// the whole hand, from the balance at the deal to the balance after payout.
func (s *casinoService) settleBlackjack(ctx context.Context, userID string, session *blackjackSession, view *game.BlackjackView) (*game.BlackjackView, error) {
	finalBalance := session.balanceBefore - view.Bet
	if view.Payout > 0 {
		updated, err := s.profiles.Update(ctx, userID, func(p *models.Profile) error {
			p.Balance += view.Payout
			return nil
		})
		if err != nil {
			return nil, err
		}
		finalBalance = updated.Balance
	}

	var txType models.TransactionType
	switch view.Result {
	case game.ResultWin, game.ResultDealerBust:
		txType = models.TransactionTypeBlackjackWin
	case game.ResultPush:
		txType = models.TransactionTypeBlackjackPush
	default:
		txType = models.TransactionTypeBlackjackLoss
	}
	s.recordBalanceChange(ctx, userID, session.balanceBefore, finalBalance, txType, map[string]any{
		"bet":    view.Bet,
		"result": string(view.Result),
	})

	log.WithFields(log.Fields{
		"userID": userID,
		"result": view.Result,
		"bet":    view.Bet,
		"payout": view.Payout,
	}).Info("Blackjack hand settled")
	return view, nil
}

func (s *casinoService) recordBalanceChange(ctx context.Context, userID string, before, after int64, txType models.TransactionType, metadata map[string]any) {
	if s.history != nil {
		err := s.history.Record(ctx, &models.BalanceHistory{
			UserID:              userID,
			BalanceBefore:       before,
			BalanceAfter:        after,
			ChangeAmount:        after - before,
			TransactionType:     txType,
			TransactionMetadata: metadata,
		})
		if err != nil {
			log.WithFields(log.Fields{
				"userID":          userID,
				"transactionType": txType,
				"error":           err,
			}).Warn("Failed to record balance history")
		}
	}
	if s.publisher != nil {
		s.publisher.Publish(events.BalanceChangeEvent{
			UserID:          userID,
			OldBalance:      before,
			NewBalance:      after,
			TransactionType: txType,
			ChangeAmount:    after - before,
		})
	}
}
