package profile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pupkeep/internal/models"
	"pupkeep/internal/scheduler"
	"pupkeep/internal/storage"
)

const (
	defaultMealOffsetMin  = 30
	defaultDrinkOffsetMin = 15
)

// Input carries the onboarding payload: the pet's basics plus its recurring
// schedule. Times are HH:MM strings. Payloads are validated at the CLI edge;
// the service only derives defaults.
type Input struct {
	Name       string
	AgeMonths  int
	WeightKg   float64
	Puppy      *bool // nil derives the flag from age
	MealTimes  []string
	WalkTimes  []string
	DrinkTimes []string
}

// Service handles onboarding and profile updates. Schedule changes go
// through the scheduler so templates are replaced wholesale and today's
// occurrences get seeded.
type Service struct {
	store storage.Provider
	sched *scheduler.Scheduler
	log   zerolog.Logger
	now   func() time.Time
}

func New(store storage.Provider, sched *scheduler.Scheduler, log zerolog.Logger) *Service {
	return &Service{store: store, sched: sched, log: log, now: time.Now}
}

// NewWithClock injects the time source, for tests.
func NewWithClock(store storage.Provider, sched *scheduler.Scheduler, log zerolog.Logger, now func() time.Time) *Service {
	return &Service{store: store, sched: sched, log: log, now: now}
}

func (s *Service) Get(id string) (models.Profile, error) {
	return s.store.GetProfile(id)
}

// Create onboards a new pet: profile, schedule templates, and today's
// occurrences in one go.
func (s *Service) Create(input Input) (models.Profile, error) {
	puppy := models.DerivePuppyFlag(input.AgeMonths)
	if input.Puppy != nil {
		puppy = *input.Puppy
	}

	profile := models.Profile{
		ID:             uuid.New().String(),
		Name:           input.Name,
		AgeMonths:      input.AgeMonths,
		WeightKg:       input.WeightKg,
		Puppy:          puppy,
		MealOffsetMin:  defaultMealOffsetMin,
		DrinkOffsetMin: defaultDrinkOffsetMin,
	}

	if err := s.store.SaveProfile(profile); err != nil {
		return models.Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	if _, err := s.sched.DefineSchedule(profile.ID, scheduleTimes(input)); err != nil {
		return models.Profile{}, err
	}
	if _, err := s.sched.MaterializeForDate(profile.ID, s.now()); err != nil {
		return models.Profile{}, err
	}

	s.log.Info().Str("owner", profile.ID).Str("name", profile.Name).Msg("profile created")
	return profile, nil
}

// Update edits the profile and redefines its schedule. Materialization is
// idempotent, so re-seeding today only fills in occurrences for templates
// that are new.
func (s *Service) Update(id string, input Input) (models.Profile, error) {
	profile, err := s.store.GetProfile(id)
	if err != nil {
		return models.Profile{}, err
	}

	profile.Name = input.Name
	profile.AgeMonths = input.AgeMonths
	profile.WeightKg = input.WeightKg
	if input.Puppy != nil {
		profile.Puppy = *input.Puppy
	} else {
		profile.Puppy = models.DerivePuppyFlag(input.AgeMonths)
	}

	if err := s.store.SaveProfile(profile); err != nil {
		return models.Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	if _, err := s.sched.DefineSchedule(profile.ID, scheduleTimes(input)); err != nil {
		return models.Profile{}, err
	}
	if _, err := s.sched.MaterializeForDate(profile.ID, s.now()); err != nil {
		return models.Profile{}, err
	}

	s.log.Info().Str("owner", profile.ID).Msg("profile updated")
	return profile, nil
}

func scheduleTimes(input Input) scheduler.Times {
	return scheduler.Times{
		Meal:  input.MealTimes,
		Walk:  input.WalkTimes,
		Drink: input.DrinkTimes,
	}
}
