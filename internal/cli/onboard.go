package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"pupkeep/internal/profile"
)

type OnboardCmd struct {
	Name   string  `help:"Pet name."`
	Age    int     `help:"Age in months." default:"0"`
	Weight float64 `help:"Weight in kg." default:"0"`
	Meals  string  `help:"Comma-separated meal times (HH:MM)."`
	Walks  string  `help:"Comma-separated walk times (HH:MM)."`
	Drinks string  `help:"Comma-separated drink times (HH:MM)."`
	Update string  `help:"Update an existing profile by id instead of creating one."`
}

func (c *OnboardCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Without --name, fall back to an interactive form.
	if c.Name == "" {
		if err := c.runForm(); err != nil {
			return err
		}
	}

	if c.Age < 1 || c.Age > 300 {
		return fmt.Errorf("age must be between 1 and 300 months")
	}
	mealTimes, err := parseTimesCSV(c.Meals)
	if err != nil {
		return err
	}
	walkTimes, err := parseTimesCSV(c.Walks)
	if err != nil {
		return err
	}
	drinkTimes, err := parseTimesCSV(c.Drinks)
	if err != nil {
		return err
	}
	if len(mealTimes) == 0 || len(mealTimes) > 5 {
		return fmt.Errorf("between 1 and 5 meal times required")
	}
	if len(walkTimes) == 0 || len(walkTimes) > 10 {
		return fmt.Errorf("between 1 and 10 walk times required")
	}
	if len(drinkTimes) > 5 {
		return fmt.Errorf("at most 5 drink times allowed")
	}

	input := profile.Input{
		Name:       c.Name,
		AgeMonths:  c.Age,
		WeightKg:   c.Weight,
		MealTimes:  mealTimes,
		WalkTimes:  walkTimes,
		DrinkTimes: drinkTimes,
	}

	if c.Update != "" {
		updated, err := ctx.Profiles.Update(c.Update, input)
		if err != nil {
			return err
		}
		fmt.Printf("Updated profile: %s (ID: %s)\n", updated.Name, updated.ID)
		return nil
	}

	created, err := ctx.Profiles.Create(input)
	if err != nil {
		return err
	}

	fmt.Printf("Created profile: %s (ID: %s)\n", created.Name, created.ID)
	if created.Puppy {
		fmt.Println("Flagged as puppy (age 12 months or under)")
	}
	fmt.Printf("Set owner_id: %s in your config file to make it the default.\n", created.ID)
	return nil
}

func (c *OnboardCmd) runForm() error {
	var ageStr, weightStr string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Pet name").Value(&c.Name),
			huh.NewInput().Title("Age (months)").Value(&ageStr),
			huh.NewInput().Title("Weight (kg, optional)").Value(&weightStr),
			huh.NewInput().Title("Meal times (HH:MM, comma-separated)").Value(&c.Meals),
			huh.NewInput().Title("Walk times (HH:MM, comma-separated)").Value(&c.Walks),
			huh.NewInput().Title("Drink times (HH:MM, comma-separated, optional)").Value(&c.Drinks),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	age, err := strconv.Atoi(ageStr)
	if err != nil {
		return fmt.Errorf("invalid age %q: %w", ageStr, err)
	}
	c.Age = age

	if weightStr != "" {
		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return fmt.Errorf("invalid weight %q: %w", weightStr, err)
		}
		c.Weight = weight
	}
	return nil
}
