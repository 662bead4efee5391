package workspace

import (
	"math"

	"apex-business/internal/models"
)

const (
	burnPerTeamMember = 1200
	fixedMonthlyBurn  = 500
	maxViability      = 99
	maxRunway         = math.MaxInt32
)

// Stats are derived from the profile alone; no AI call is involved.
type Stats struct {
	MonthlyBurn    int `json:"monthlyBurn"`
	Runway         int `json:"runway"`
	ViabilityScore int `json:"viabilityScore"`
}

// ComputeStats derives burn rate, runway in months and a viability score in [60, 99].
func ComputeStats(p models.Profile) Stats {
	burn := p.TeamSize*burnPerTeamMember + fixedMonthlyBurn

	runway := 0
	if burn > 0 {
		months := math.Floor(p.Capital / float64(burn))
		switch {
		case months > maxRunway:
			runway = maxRunway
		case months > 0:
			runway = int(months)
		}
	}

	score := 60
	switch p.Experience {
	case models.ExperienceExpert:
		score += 25
	case models.ExperienceIntermediate:
		score += 10
	}
	if runway > 6 {
		score += 10
	}
	if p.Capital > 10000 {
		score += 5
	}
	if score > maxViability {
		score = maxViability
	}

	return Stats{MonthlyBurn: burn, Runway: runway, ViabilityScore: score}
}
