package report

// Band is the discrete visual tier a 0-100 score falls into.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// Band thresholds on the 0-100 scale.
const (
	MediumThreshold = 60
	HighThreshold   = 80
)

// BandFor maps a score to its band: <60 Low, 60..79.x Medium, >=80 High.
func BandFor(score float64) Band {
	switch {
	case score >= HighThreshold:
		return BandHigh
	case score >= MediumThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	default:
		return "low"
	}
}

// ExperienceScore converts raw years of experience to the 0-100 display
// scale. Each year is worth 20 points, capped at 100.
func ExperienceScore(years float64) float64 {
	s := years * 20
	if s > 100 {
		return 100
	}
	if s < 0 {
		return 0
	}
	return s
}
