package service

import (
	"math"
	"sort"
	"time"

	"github.com/ritualhq/backend/internal/models"
)

const (
	// correlationModerate is the reporting floor: |r| at or below this
	// is silently dropped, never shown as "weak"
	correlationModerate = 0.3
	// correlationStrong upgrades a finding's strength label
	correlationStrong = 0.6
)

// pearson computes the Pearson correlation coefficient for two aligned
// series. Returns 0 when the sample is too small or either series has
// zero variance; the result is clamped to [-1, 1] against float drift.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
		sumYY += y[i] * y[i]
	}

	fn := float64(n)
	varX := fn*sumXX - sumX*sumX
	varY := fn*sumYY - sumY*sumY
	if varX == 0 || varY == 0 {
		return 0
	}

	r := (fn*sumXY - sumX*sumY) / math.Sqrt(varX*varY)
	return math.Max(-1, math.Min(1, r))
}

// analyzeCorrelations computes pairwise Pearson correlations across the
// fixed habit signal set, aligned on dates where both signals are
// present. Only moderate or stronger findings are returned, strongest
// first.
func analyzeCorrelations(records []models.HabitRecord, today time.Time, loc *time.Location) []models.CorrelationFinding {
	findings := make([]models.CorrelationFinding, 0)

	// Extract each signal's value per record once, preserving record order
	values := make([][]float64, len(correlationSignals))
	present := make([][]bool, len(correlationSignals))
	for si, sig := range correlationSignals {
		values[si] = make([]float64, 0, len(records))
		present[si] = make([]bool, 0, len(records))
		for i := range records {
			if records[i].Day(loc).After(today) {
				values[si] = append(values[si], 0)
				present[si] = append(present[si], false)
				continue
			}
			v, ok := sig.extract(&records[i])
			values[si] = append(values[si], v)
			present[si] = append(present[si], ok)
		}
	}

	for i := 0; i < len(correlationSignals); i++ {
		for j := i + 1; j < len(correlationSignals); j++ {
			var x, y []float64
			for k := range records {
				if present[i][k] && present[j][k] {
					x = append(x, values[i][k])
					y = append(y, values[j][k])
				}
			}

			r := pearson(x, y)
			if math.Abs(r) <= correlationModerate {
				continue
			}

			strength := models.StrengthModerate
			if math.Abs(r) > correlationStrong {
				strength = models.StrengthStrong
			}
			direction := models.DirectionPositive
			if r < 0 {
				direction = models.DirectionNegative
			}

			findings = append(findings, models.CorrelationFinding{
				SignalA:     correlationSignals[i].name,
				SignalB:     correlationSignals[j].name,
				Coefficient: r,
				Strength:    strength,
				Direction:   direction,
				SampleSize:  len(x),
			})
		}
	}

	sort.Slice(findings, func(a, b int) bool {
		return math.Abs(findings[a].Coefficient) > math.Abs(findings[b].Coefficient)
	})

	return findings
}
