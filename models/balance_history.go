package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial       TransactionType = "initial"
	TransactionTypeWorkPay       TransactionType = "work_pay"
	TransactionTypeTreatment     TransactionType = "treatment"
	TransactionTypeHeal          TransactionType = "heal"
	TransactionTypeRouletteWin   TransactionType = "roulette_win"
	TransactionTypeRouletteLoss  TransactionType = "roulette_loss"
	TransactionTypeBlackjackWin  TransactionType = "blackjack_win"
	TransactionTypeBlackjackLoss TransactionType = "blackjack_loss"
	TransactionTypeBlackjackPush TransactionType = "blackjack_push"

	// TransactionTypeBlackjackForfeit records the bet lost when an abandoned
	// table expires without ever being settled.
	TransactionTypeBlackjackForfeit TransactionType = "blackjack_forfeit"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	UserID              string          `db:"user_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}
