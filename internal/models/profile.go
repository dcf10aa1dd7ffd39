package models

import "time"

const puppyAgeMonthsMax = 12

// Profile describes the pet whose schedule is being tracked.
type Profile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	AgeMonths      int       `json:"age_months"`
	WeightKg       float64   `json:"weight_kg,omitempty"`
	Puppy          bool      `json:"puppy"`
	MealOffsetMin  int       `json:"meal_offset_min"`
	DrinkOffsetMin int       `json:"drink_offset_min"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DerivePuppyFlag computes the puppy default from age. Applied at
// construction time when the caller does not set the flag explicitly.
func DerivePuppyFlag(ageMonths int) bool {
	return ageMonths > 0 && ageMonths <= puppyAgeMonthsMax
}
