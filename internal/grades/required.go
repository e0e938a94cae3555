package grades

import "github.com/MKhiriev/go-study-keeper/models"

// Outcome classifies a [Requirement].
type Outcome int

const (
	// InsufficientData means no grades exist yet.
	InsufficientData Outcome = iota
	// NotAchievable means even a perfect score would not reach the threshold.
	NotAchievable
	// Achievable means Requirement.Score on the next evaluation reaches it.
	Achievable
)

// String implements [fmt.Stringer].
func (o Outcome) String() string {
	switch o {
	case NotAchievable:
		return "not_achievable"
	case Achievable:
		return "achievable"
	default:
		return "insufficient_data"
	}
}

// Requirement is the score needed on the next evaluation.
type Requirement struct {
	Outcome Outcome
	// Score is valid only for [Achievable]; it is never negative.
	Score Score
}

// Wire converts r into its JSON form.
func (r Requirement) Wire() models.Requirement {
	w := models.Requirement{Outcome: r.Outcome.String()}
	if r.Outcome == Achievable {
		w.Score = r.Score.String()
	}
	return w
}

// RequiredNextScore solves (sum + x) / (n + 1) = threshold for x, the score
// needed on one more equally weighted evaluation.
func RequiredNextScore(entries []models.GradeEntry, threshold float64) Requirement {
	n := int64(len(entries))
	if n == 0 {
		return Requirement{Outcome: InsufficientData}
	}
	x := toTenths(threshold)*(n+1) - sumTenths(entries)
	if x > toTenths(models.MaxScore) {
		return Requirement{Outcome: NotAchievable}
	}
	return Requirement{Outcome: Achievable, Score: NewScore(max(x, 0))}
}
