package models

import "testing"

func TestTaskStatusIsActive(t *testing.T) {
	active := map[TaskStatus]bool{
		StatusPending:    true,
		StatusInProgress: true,
		StatusCompleted:  false,
		StatusSkipped:    false,
		StatusMissed:     false,
		StatusRescued:    false,
	}
	for status, want := range active {
		if got := status.IsActive(); got != want {
			t.Errorf("%s.IsActive() = %t, want %t", status, got, want)
		}
	}
}

func TestTaskStatusIsResolved(t *testing.T) {
	resolved := map[TaskStatus]bool{
		StatusPending:    false,
		StatusInProgress: false,
		StatusCompleted:  true,
		StatusSkipped:    false,
		StatusMissed:     false,
		StatusRescued:    true,
	}
	for status, want := range resolved {
		if got := status.IsResolved(); got != want {
			t.Errorf("%s.IsResolved() = %t, want %t", status, got, want)
		}
	}
}

func TestTaskStatusValid(t *testing.T) {
	for _, status := range []TaskStatus{
		StatusPending, StatusInProgress, StatusCompleted,
		StatusSkipped, StatusMissed, StatusRescued,
	} {
		if !status.Valid() {
			t.Errorf("%s should be valid", status)
		}
	}
	if TaskStatus("DONE").Valid() {
		t.Error("DONE should not be valid")
	}
}

func TestTaskKindDefaults(t *testing.T) {
	durations := map[TaskKind]int{
		TaskKindMeal:  30,
		TaskKindWalk:  60,
		TaskKindDrink: 15,
	}
	for kind, want := range durations {
		if got := kind.DefaultDurationMin(); got != want {
			t.Errorf("%s.DefaultDurationMin() = %d, want %d", kind, got, want)
		}
		if !kind.Valid() {
			t.Errorf("%s should be valid", kind)
		}
	}

	if TaskKind("NAP").Valid() {
		t.Error("NAP should not be valid")
	}
	if got := TaskKindWalk.DisplayName(); got != "Walk Time" {
		t.Errorf("unexpected display name: %s", got)
	}
}

func TestMoodValid(t *testing.T) {
	for _, mood := range []Mood{MoodHappy, MoodNeutral, MoodTired, MoodExcited, MoodAnxious} {
		if !mood.Valid() {
			t.Errorf("%s should be valid", mood)
		}
	}
	if Mood("GRUMPY").Valid() {
		t.Error("GRUMPY should not be valid")
	}
	if Mood("").Valid() {
		t.Error("empty mood should not be valid")
	}
}

func TestDerivePuppyFlag(t *testing.T) {
	cases := []struct {
		ageMonths int
		want      bool
	}{
		{0, false},
		{1, true},
		{12, true},
		{13, false},
		{36, false},
		{-1, false},
	}
	for _, tc := range cases {
		if got := DerivePuppyFlag(tc.ageMonths); got != tc.want {
			t.Errorf("DerivePuppyFlag(%d) = %t, want %t", tc.ageMonths, got, tc.want)
		}
	}
}
