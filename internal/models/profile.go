package models

// Experience is the founder's self-reported experience level.
type Experience string

const (
	ExperienceBeginner     Experience = "Beginner"
	ExperienceIntermediate Experience = "Intermediate"
	ExperienceExpert       Experience = "Expert"
)

// Valid reports whether e is one of the known levels.
func (e Experience) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceExpert:
		return true
	}
	return false
}

// Profile holds the business parameters that drive every prompt. A workspace
// never mutates it; updates replace the stored profile and start a new workspace.
type Profile struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	BusinessIdea string     `json:"businessIdea"`
	Capital      float64    `json:"capital"`
	Experience   Experience `json:"experience"`
	Location     string     `json:"location"`
	TeamSize     int        `json:"teamSize"`
}
