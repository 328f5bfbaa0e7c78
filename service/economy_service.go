package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"cantina/events"
	"cantina/models"
)

// fullShiftAfter is how long a worker must rest before the next full-pay
// shift. Working earlier pays half and risks catching a disease.
const fullShiftAfter = 24 * time.Hour

// staleDiseaseAfter is the age past which a disease clears on its own during
// a normal shift.
const staleDiseaseAfter = 72 * time.Hour

// healthyThreshold is the health level at which healing shakes a disease off.
const healthyThreshold = 80

// disease is an illness an early shift can inflict, with its damage range.
type disease struct {
	name      string
	minDamage int
	maxDamage int
}

var diseases = []disease{
	{"cold", 5, 12},
	{"flu", 8, 20},
	{"food_poisoning", 6, 18},
	{"fever", 7, 15},
	{"fatigue", 5, 14},
}

type economyService struct {
	profiles  ProfileRepository
	jobs      JobCatalog
	history   BalanceHistoryRepository
	publisher events.Publisher

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

// EconomyOption configures an economy service.
type EconomyOption func(*economyService)

// WithEconomyRand injects the random source. Tests use seeded sources.
func WithEconomyRand(rng *rand.Rand) EconomyOption {
	return func(s *economyService) { s.rng = rng }
}

// WithEconomyClock injects the clock used for shift and disease timestamps.
func WithEconomyClock(now func() time.Time) EconomyOption {
	return func(s *economyService) { s.now = now }
}

// NewEconomyService creates the economy service backing the profile, job,
// work and heal commands.
func NewEconomyService(profiles ProfileRepository, jobs JobCatalog, history BalanceHistoryRepository, publisher events.Publisher, opts ...EconomyOption) EconomyService {
	s := &economyService{
		profiles:  profiles,
		jobs:      jobs,
		history:   history,
		publisher: publisher,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// intn returns a uniform int in [0, n). The shared source is guarded because
// command handlers run concurrently.
func (s *economyService) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// randRange returns a uniform int in [lo, hi], inclusive on both ends.
func (s *economyService) randRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.intn(hi-lo+1)
}

// uniform returns a uniform float in [lo, hi).
func (s *economyService) uniform(lo, hi float64) float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *economyService) Register(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.Register(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.WithField("userID", userID).Info("Registered new profile")

	s.recordBalanceChange(ctx, userID, 0, profile.Balance, models.TransactionTypeInitial, nil)
	if s.publisher != nil {
		s.publisher.Publish(events.ProfileRegisteredEvent{UserID: userID})
	}
	return profile, nil
}

func (s *economyService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotRegistered
	}
	return profile, nil
}

func (s *economyService) Jobs(ctx context.Context) ([]*models.Job, error) {
	return s.jobs.List(ctx)
}

// ApplyForJob rolls a uniform number in [0, requiredExperience]; the
// application succeeds when the roll does not exceed the user's experience,
// so entry-level jobs always hire and demanding jobs hire in proportion to
// experience.
func (s *economyService) ApplyForJob(ctx context.Context, userID, query string) (*models.ApplyOutcome, error) {
	job, err := s.jobs.FindBySlugOrName(ctx, query)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrUnknownJob
	}

	outcome := &models.ApplyOutcome{Job: job}
	_, err = s.profiles.Update(ctx, userID, func(p *models.Profile) error {
		if p.Job == job.Slug {
			return ErrAlreadyEmployed
		}
		roll := s.randRange(0, int(job.RequiredExperience))
		if int64(roll) <= p.Experience {
			outcome.Hired = true
			p.Job = job.Slug
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"job":    job.Slug,
		"hired":  outcome.Hired,
	}).Info("Job application resolved")
	return outcome, nil
}

// Work resolves one shift. A full 24h rest (or a first ever shift) pays in
// full; an early shift either pays half or ends in a disease, with the hazard
// growing the earlier the shift is.
func (s *economyService) Work(ctx context.Context, userID string) (*models.WorkOutcome, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Job == "" {
		return nil, ErrNoJob
	}
	job, err := s.jobs.FindBySlugOrName(ctx, profile.Job)
	if err != nil {
		return nil, err
	}
	if job == nil {
		// The catalog no longer carries the stored job.
		return nil, ErrUnknownJob
	}

	now := s.now()
	outcome := &models.WorkOutcome{JobSlug: job.Slug}
	var balanceBefore int64

	_, err = s.profiles.Update(ctx, userID, func(p *models.Profile) error {
		balanceBefore = p.Balance

		basePay := int64(50) + job.RequiredExperience*10 + int64(s.intn(101))
		if job.Salary != nil {
			basePay = *job.Salary
		}
		xpGain := int64(s.randRange(5, 20)) + job.RequiredExperience/2

		outcome.FirstShift = p.LastWorkedAt == nil
		if !outcome.FirstShift {
			outcome.HoursSince = now.Sub(*p.LastWorkedAt).Hours()
		}

		switch {
		case outcome.FirstShift || outcome.HoursSince >= fullShiftAfter.Hours():
			outcome.Branch = models.WorkNormal
			outcome.Pay = int64(float64(basePay) * s.uniform(0.9, 1.3))
			if outcome.Pay < 1 {
				outcome.Pay = 1
			}
			outcome.XPGained = xpGain
			if p.Sick() && p.DiseaseSetAt != nil && now.Sub(*p.DiseaseSetAt) > staleDiseaseAfter {
				p.ClearDisease()
				outcome.DiseaseCleared = true
			}

		default:
			outcome.HazardPercent = hazardPercent(outcome.HoursSince)
			if s.intn(100) < outcome.HazardPercent {
				outcome.Branch = models.WorkSick
				d := diseases[s.intn(len(diseases))]
				outcome.Disease = d.name
				outcome.HealthLost = s.randRange(d.minDamage, d.maxDamage)

				p.Health -= outcome.HealthLost
				if p.Health < 0 {
					p.Health = 0
				}
				if p.Balance > 0 {
					outcome.TreatmentCost = int64(s.randRange(0, int(p.Balance/10)))
				}
				p.Disease = d.name
				setAt := now
				p.DiseaseSetAt = &setAt

				outcome.XPGained = xpGain / 4
			} else {
				outcome.Branch = models.WorkReduced
				outcome.Pay = basePay / 2
				outcome.XPGained = xpGain / 2
			}
			if outcome.Branch != models.WorkSick && outcome.Pay < 1 {
				outcome.Pay = 1
			}
			if outcome.XPGained < 1 {
				outcome.XPGained = 1
			}
		}

		p.Balance += outcome.Pay - outcome.TreatmentCost
		p.Experience += outcome.XPGained
		workedAt := now
		p.LastWorkedAt = &workedAt

		outcome.NewBalance = p.Balance
		outcome.NewExperience = p.Experience
		outcome.NewHealth = p.Health
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Pay != 0 {
		s.recordBalanceChange(ctx, userID, balanceBefore, balanceBefore+outcome.Pay, models.TransactionTypeWorkPay, map[string]any{
			"job":    outcome.JobSlug,
			"branch": string(outcome.Branch),
		})
	}
	if outcome.TreatmentCost != 0 {
		s.recordBalanceChange(ctx, userID, balanceBefore+outcome.Pay, outcome.NewBalance, models.TransactionTypeTreatment, map[string]any{
			"disease": outcome.Disease,
		})
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"job":    outcome.JobSlug,
		"branch": outcome.Branch,
		"pay":    outcome.Pay,
		"xp":     outcome.XPGained,
	}).Info("Work shift resolved")
	return outcome, nil
}

// hazardPercent maps how early a shift is to a disease chance: 45% right
// after the previous shift, falling linearly to 5% as the full rest nears.
func hazardPercent(hoursSince float64) int {
	hazard := int(math.Round((fullShiftAfter.Hours() - hoursSince) * 45 / fullShiftAfter.Hours()))
	if hazard < 5 {
		hazard = 5
	}
	if hazard > 45 {
		hazard = 45
	}
	return hazard
}

// HealCost prices restoring h health points. The quadratic term makes a full
// heal from low health meaningfully pricier than topping off.
func HealCost(h int) int64 {
	if h <= 0 {
		return 0
	}
	cost := int64(math.Floor(float64(h)*5 + float64(h*h)*0.20))
	if cost < 1 {
		cost = 1
	}
	return cost
}

func (s *economyService) Heal(ctx context.Context, userID string, amount int) (*models.HealOutcome, error) {
	outcome := &models.HealOutcome{}
	var balanceBefore int64

	_, err := s.profiles.Update(ctx, userID, func(p *models.Profile) error {
		if p.Health >= models.MaxHealth {
			return ErrHealthFull
		}
		balanceBefore = p.Balance

		missing := models.MaxHealth - p.Health
		healed := missing
		if amount > 0 && amount < missing {
			healed = amount
		}
		cost := HealCost(healed)
		if cost > p.Balance {
			return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, cost, p.Balance)
		}

		p.Balance -= cost
		p.Health += healed
		if p.Sick() && p.Health >= healthyThreshold {
			p.ClearDisease()
			outcome.DiseaseCleared = true
		}

		outcome.Healed = healed
		outcome.Cost = cost
		outcome.NewHealth = p.Health
		outcome.NewBalance = p.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordBalanceChange(ctx, userID, balanceBefore, outcome.NewBalance, models.TransactionTypeHeal, map[string]any{
		"healed": outcome.Healed,
	})

	log.WithFields(log.Fields{
		"userID": userID,
		"healed": outcome.Healed,
		"cost":   outcome.Cost,
	}).Info("Heal resolved")
	return outcome, nil
}

func (s *economyService) History(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.history.GetByUser(ctx, userID, limit)
}

// recordBalanceChange appends to the audit log and announces the change on
// the bus. The JSON documents stay the system of record, so an audit failure
// is logged and the action still succeeds.
func (s *economyService) recordBalanceChange(ctx context.Context, userID string, before, after int64, txType models.TransactionType, metadata map[string]any) {
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
