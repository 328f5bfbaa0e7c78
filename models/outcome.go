package models

// WorkBranch identifies which payout branch a work action resolved through.
type WorkBranch string

const (
	// WorkNormal is the full payout taken when 24h have passed (or on the
	// first ever shift).
	WorkNormal WorkBranch = "normal"
	// WorkReduced is the halved payout for working early without falling ill.
	WorkReduced WorkBranch = "reduced"
	// WorkSick means the early shift ended in a contracted disease.
	WorkSick WorkBranch = "sick"
)

// WorkOutcome is the structured result of a work action.
type WorkOutcome struct {
	Branch        WorkBranch
	JobSlug       string
	Pay           int64
	XPGained      int64
	HoursSince    float64 // hours since the previous shift; 0 when never worked
	FirstShift    bool
	HazardPercent int // only set on the early branches

	// Sick-branch details.
	Disease       string
	HealthLost    int
	TreatmentCost int64

	DiseaseCleared bool // a stale disease (>3 days) was cleared on a normal shift

	NewBalance    int64
	NewExperience int64
	NewHealth     int
}

// HealOutcome is the structured result of a heal action.
type HealOutcome struct {
	Healed         int
	Cost           int64
	DiseaseCleared bool
	NewHealth      int
	NewBalance     int64
}

// ApplyOutcome is the structured result of a job application.
type ApplyOutcome struct {
	Hired bool
	Job   *Job
}

// RouletteOutcome is the structured result of a roulette spin.
type RouletteOutcome struct {
	Number     int
	Color      string // "red", "black" or "zero"
	Choice     string
	Bet        int64
	Won        bool
	Payout     int64 // total returned on a win, bet included
	NewBalance int64
}
