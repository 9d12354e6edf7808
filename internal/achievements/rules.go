package achievements

import "github.com/abhisek/adapted/internal/profile"

const (
	FirstStepsPoints     = 50
	SteadyProgressPoints = 200
	HighAchieverAccuracy = 80.0
)

// Rule unlocks an achievement when Met returns true.
type Rule struct {
	Achievement Achievement
	Met         func(p *profile.Profile) bool
}

// DefaultRules returns the unlock rules in check order.
func DefaultRules() []Rule {
	return []Rule{
		{FirstSteps, func(p *profile.Profile) bool { return p.Points >= FirstStepsPoints }},
		{SteadyProgress, func(p *profile.Profile) bool { return p.Points >= SteadyProgressPoints }},
		{HighAchiever, func(p *profile.Profile) bool { return p.AccuracyRate >= HighAchieverAccuracy }},
	}
}

// Unlock appends every achievement whose rule is met and that p does not
// hold yet. It returns the newly unlocked ones. Existing achievements are
// never removed.
func Unlock(p *profile.Profile, rules []Rule) []Achievement {
	var unlocked []Achievement
	for _, r := range rules {
		if p.HasAchievement(string(r.Achievement)) || !r.Met(p) {
			continue
		}
		p.Achievements = append(p.Achievements, string(r.Achievement))
		unlocked = append(unlocked, r.Achievement)
	}
	return unlocked
}
