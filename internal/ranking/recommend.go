package ranking

import (
	"fmt"

	"github.com/dharmasatrya/smarttrip/internal/models"
)

type Tier string

const (
	TierGood    Tier = "good"
	TierWarning Tier = "warning"
	TierPoor    Tier = "poor"
)

const (
	GoodThreshold    = 7.0
	WarningThreshold = 5.0
)

// ScoreColor classifies a 0-10 score. Each tier includes its lower bound.
func ScoreColor(score float64) Tier {
	switch {
	case score >= GoodThreshold:
		return TierGood
	case score >= WarningThreshold:
		return TierWarning
	default:
		return TierPoor
	}
}

// PickRecommended returns the option the optimizer flagged as best. A
// recommendation that names no returned option is a data-integrity error and
// is never replaced by the top-ranked option.
func PickRecommended(result models.MultiOptionResult) (models.TripOption, error) {
	opt, err := FindOption(result.Options, result.RecommendedID)
	if err != nil {
		return models.TripOption{}, fmt.Errorf("%w: id %d among %d options",
			models.ErrRecommendationNotFound, result.RecommendedID, len(result.Options))
	}
	return opt, nil
}

func FindOption(options []models.TripOption, id int) (models.TripOption, error) {
	for _, o := range options {
		if o.ID == id {
			return o, nil
		}
	}
	return models.TripOption{}, fmt.Errorf("%w: id %d", models.ErrOptionNotFound, id)
}

// ScoreTiers is the per-criterion classification of one option.
type ScoreTiers struct {
	Cost    Tier `json:"cost"`
	Time    Tier `json:"time"`
	Comfort Tier `json:"comfort"`
	Overall Tier `json:"overall"`
}

func TiersFor(s models.Scores) ScoreTiers {
	return ScoreTiers{
		Cost:    ScoreColor(s.Cost),
		Time:    ScoreColor(s.Time),
		Comfort: ScoreColor(s.Comfort),
		Overall: ScoreColor(s.Overall),
	}
}
