// Package grade holds the grade scale reference data.
package grade

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	errEmptyScale = errors.New("grade scale is empty")

	scaleMin = decimal.Zero
	scaleMax = decimal.NewFromInt(100)
	step     = decimal.NewFromInt(1) // scores are whole numbers
)

// Band maps an inclusive score range to a letter grade and its GPA.
type Band struct {
	Grade string          `json:"grade" db:"grade"`
	Min   decimal.Decimal `json:"min" db:"min_score"`
	Max   decimal.Decimal `json:"max" db:"max_score"`
	GPA   decimal.Decimal `json:"gpa" db:"gpa"`
}

func (b Band) Contains(score decimal.Decimal) bool {
	return score.GreaterThanOrEqual(b.Min) && score.LessThanOrEqual(b.Max)
}

func (b Band) String() string {
	return fmt.Sprintf("%s [%s, %s] gpa=%s", b.Grade, b.Min, b.Max, b.GPA.StringFixed(1))
}

// CanonicalScale returns the grade scale owned by the seed definition, ordered by Min.
func CanonicalScale() []Band {
	band := func(grade string, min, max int64, gpa float64) Band {
		return Band{
			Grade: grade,
			Min:   decimal.NewFromInt(min),
			Max:   decimal.NewFromInt(max),
			GPA:   decimal.NewFromFloat(gpa),
		}
	}
	return []Band{
		band("F", 0, 59, 0),
		band("D", 60, 69, 1),
		band("C", 70, 79, 2),
		band("B", 80, 89, 3),
		band("A", 90, 100, 4),
	}
}

// ValidateScale checks that bands, ordered by Min, cover [0, 100] without gap nor overlap.
func ValidateScale(bands []Band) error {
	if len(bands) == 0 {
		return errEmptyScale
	}
	if !bands[0].Min.Equal(scaleMin) {
		return errors.Errorf("%s: scale must start at %s", bands[0], scaleMin)
	}
	seen := make(map[string]bool, len(bands))
	for i, b := range bands {
		if seen[b.Grade] {
			return errors.Errorf("%s: duplicate grade", b)
		}
		seen[b.Grade] = true
		if b.Max.LessThan(b.Min) {
			return errors.Errorf("%s: max is lower than min", b)
		}
		if i > 0 {
			prev := bands[i-1]
			if want := prev.Max.Add(step); !b.Min.Equal(want) {
				return errors.Errorf("%s: must start at %s right after %s", b, want, prev)
			}
		}
	}
	if last := bands[len(bands)-1]; !last.Max.Equal(scaleMax) {
		return errors.Errorf("%s: scale must end at %s", last, scaleMax)
	}
	return nil
}

// Lookup returns the band containing score.
func Lookup(bands []Band, score decimal.Decimal) (Band, bool) {
	for _, b := range bands {
		if b.Contains(score) {
			return b, true
		}
	}
	return Band{}, false
}

// Repository owns the persistence of the grade scale.
type Repository interface {
	// ReplaceGradeScales atomically deletes every band and inserts bands.
	ReplaceGradeScales(ctx context.Context, bands []Band) error
	// QueryGradeScales returns every band ordered by Min.
	QueryGradeScales(ctx context.Context) ([]Band, error)
}
