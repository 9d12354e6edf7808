package achievements

import (
	"testing"

	"github.com/abhisek/adapted/internal/profile"
)

func TestUnlock_Thresholds(t *testing.T) {
	tests := []struct {
		name     string
		points   int
		accuracy float64
		want     []Achievement
	}{
		{"nothing", 40, 50, nil},
		{"first steps", 50, 50, []Achievement{FirstSteps}},
		{"both point milestones", 200, 79.9, []Achievement{FirstSteps, SteadyProgress}},
		{"accuracy only", 0, 80, []Achievement{HighAchiever}},
		{"everything", 250, 100, []Achievement{FirstSteps, SteadyProgress, HighAchiever}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile.New("u1")
			p.Points = tt.points
			p.AccuracyRate = tt.accuracy

			got := Unlock(p, DefaultRules())
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if len(p.Achievements) != len(tt.want) {
				t.Errorf("profile has %v", p.Achievements)
			}
		})
	}
}

func TestUnlock_IdempotentAndNeverRevoked(t *testing.T) {
	p := profile.New("u1")
	p.AccuracyRate = 90
	if got := Unlock(p, DefaultRules()); len(got) != 1 {
		t.Fatalf("first unlock = %v", got)
	}
	if got := Unlock(p, DefaultRules()); len(got) != 0 {
		t.Errorf("second unlock = %v, want none", got)
	}

	p.AccuracyRate = 10
	Unlock(p, DefaultRules())
	if !p.HasAchievement(string(HighAchiever)) {
		t.Error("achievement revoked after accuracy dropped")
	}
}

func TestDisplayMetadata(t *testing.T) {
	for _, a := range All() {
		if a.DisplayName() == string(a) {
			t.Errorf("%q has no display name", a)
		}
		if a.Icon() == "✦" {
			t.Errorf("%q has no icon", a)
		}
		if a.Description() == "" {
			t.Errorf("%q has no description", a)
		}
	}
	if Achievement("custom").DisplayName() != "custom" {
		t.Error("unknown achievement should fall back to its name")
	}
}
