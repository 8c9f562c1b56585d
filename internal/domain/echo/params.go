package echo

import (
	"fmt"
	"math"
)

// Weights are the aggregation weights of the five sub-scores. They must sum
// to 1.0 so the composite stays in [0,100].
type Weights struct {
	Diversity   float64
	Accuracy    float64
	SwitchSpeed float64
	Consistency float64
	Improvement float64
}

// Sum returns the total of the five weights.
func (w Weights) Sum() float64 {
	return w.Diversity + w.Accuracy + w.SwitchSpeed + w.Consistency + w.Improvement
}

// Validate checks that the weights sum to 1.0 within floating-point
// tolerance and that none is negative.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"diversity":    w.Diversity,
		"accuracy":     w.Accuracy,
		"switch_speed": w.SwitchSpeed,
		"consistency":  w.Consistency,
		"improvement":  w.Improvement,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is negative: %v", name, v)
		}
	}

	if diff := math.Abs(w.Sum() - 1.0); diff > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %v", w.Sum())
	}

	return nil
}

// Params defines all configurable parameters for the Echo Score computation.
// The exact weight values and the trend sigmoid constant are product-tuned
// defaults, deliberately exposed as configuration rather than hard-coded in
// the scorers.
type Params struct {
	// WindowDays is the trailing activity window every scorer reads.
	WindowDays int

	// Weights combine the five sub-scores into the composite.
	Weights Weights

	// RecentAccuracyCount is how many of the newest submissions feed the
	// recent-accuracy term.
	RecentAccuracyCount int

	// RecentAccuracyWeight and OverallAccuracyWeight split the accuracy
	// score between current form and lifetime average.
	RecentAccuracyWeight  float64
	OverallAccuracyWeight float64

	// SpeedRatioCap bounds reference/user median ratios so one unusually
	// fast outlier cannot push the speed score above 100.
	SpeedRatioCap float64

	// StreakCapDays caps the streak term of the consistency score.
	StreakCapDays int

	// RestrictedRangeMaxScore caps the diversity score when reading touches
	// RestrictedRangeBuckets or fewer bias buckets.
	RestrictedRangeMaxScore float64
	RestrictedRangeBuckets  int

	// TrendMaxPoints bounds how much score history the trend analyzer
	// reads; TrendMinPoints is the fewest points that yield a non-zero
	// slope. TrendSigmoidK scales slope (points/day) inside the sigmoid
	// that maps the average slope onto [0,100], centered at 50.
	TrendMaxPoints int
	TrendMinPoints int
	TrendSigmoidK  float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	WindowDays int

	DiversityWeight   float64
	AccuracyWeight    float64
	SwitchSpeedWeight float64
	ConsistencyWeight float64
	ImprovementWeight float64

	RecentAccuracyCount   int
	RecentAccuracyWeight  float64
	OverallAccuracyWeight float64

	SpeedRatioCap float64

	StreakCapDays int

	RestrictedRangeMaxScore float64
	RestrictedRangeBuckets  int

	TrendMaxPoints int
	TrendMinPoints int
	TrendSigmoidK  float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		WindowDays: 30,

		Weights: Weights{
			Diversity:   0.25,
			Accuracy:    0.25,
			SwitchSpeed: 0.20,
			Consistency: 0.15,
			Improvement: 0.15,
		},

		RecentAccuracyCount:   10,
		RecentAccuracyWeight:  0.4,
		OverallAccuracyWeight: 0.6,

		SpeedRatioCap: 1.5,

		StreakCapDays: 30,

		RestrictedRangeMaxScore: 40,
		RestrictedRangeBuckets:  2,

		TrendMaxPoints: 14,
		TrendMinPoints: 3,
		// One point/day of sustained improvement maps to roughly 82;
		// one point/day of decline to roughly 18.
		TrendSigmoidK: 1.5,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Only non-zero config fields override the defaults; the five weights are
// taken together, so overriding any weight requires providing all five.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.WindowDays > 0 {
		params.WindowDays = config.WindowDays
	}

	weightsSet := config.DiversityWeight != 0 || config.AccuracyWeight != 0 ||
		config.SwitchSpeedWeight != 0 || config.ConsistencyWeight != 0 ||
		config.ImprovementWeight != 0
	if weightsSet {
		params.Weights = Weights{
			Diversity:   config.DiversityWeight,
			Accuracy:    config.AccuracyWeight,
			SwitchSpeed: config.SwitchSpeedWeight,
			Consistency: config.ConsistencyWeight,
			Improvement: config.ImprovementWeight,
		}
	}

	if config.RecentAccuracyCount > 0 {
		params.RecentAccuracyCount = config.RecentAccuracyCount
	}
	if config.RecentAccuracyWeight > 0 {
		params.RecentAccuracyWeight = config.RecentAccuracyWeight
	}
	if config.OverallAccuracyWeight > 0 {
		params.OverallAccuracyWeight = config.OverallAccuracyWeight
	}

	if config.SpeedRatioCap > 0 {
		params.SpeedRatioCap = config.SpeedRatioCap
	}

	if config.StreakCapDays > 0 {
		params.StreakCapDays = config.StreakCapDays
	}

	if config.RestrictedRangeMaxScore > 0 {
		params.RestrictedRangeMaxScore = config.RestrictedRangeMaxScore
	}
	if config.RestrictedRangeBuckets > 0 {
		params.RestrictedRangeBuckets = config.RestrictedRangeBuckets
	}

	if config.TrendMaxPoints > 0 {
		params.TrendMaxPoints = config.TrendMaxPoints
	}
	if config.TrendMinPoints > 0 {
		params.TrendMinPoints = config.TrendMinPoints
	}
	if config.TrendSigmoidK > 0 {
		params.TrendSigmoidK = config.TrendSigmoidK
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return params, nil
}

// Validate checks the parameter set for internal consistency.
func (p *Params) Validate() error {
	if p.WindowDays <= 0 {
		return fmt.Errorf("window days must be positive, got %d", p.WindowDays)
	}

	if err := p.Weights.Validate(); err != nil {
		return err
	}

	if diff := math.Abs(p.RecentAccuracyWeight + p.OverallAccuracyWeight - 1.0); diff > 1e-9 {
		return fmt.Errorf("accuracy weights must sum to 1.0, got %v",
			p.RecentAccuracyWeight+p.OverallAccuracyWeight)
	}

	if p.SpeedRatioCap <= 0 {
		return fmt.Errorf("speed ratio cap must be positive, got %v", p.SpeedRatioCap)
	}

	if p.StreakCapDays <= 0 {
		return fmt.Errorf("streak cap must be positive, got %d", p.StreakCapDays)
	}

	if p.TrendMinPoints < 2 {
		return fmt.Errorf("trend min points must be at least 2, got %d", p.TrendMinPoints)
	}

	return nil
}
