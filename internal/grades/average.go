package grades

import "github.com/MKhiriev/go-study-keeper/models"

// Average returns the arithmetic mean of the entries rounded half-up to one
// decimal, or an invalid [Score] for an empty list.
func Average(entries []models.GradeEntry) Score {
	if len(entries) == 0 {
		return Score{}
	}
	return NewScore(divHalfUp(sumTenths(entries), int64(len(entries))))
}

// OverallAverage averages the valid subject averages. Invalid entries are
// excluded; the result is invalid when none remain.
func OverallAverage(subjectAverages []Score) Score {
	var (
		sum int64
		n   int64
	)
	for _, a := range subjectAverages {
		if !a.Valid() {
			continue
		}
		sum += a.Tenths()
		n++
	}
	if n == 0 {
		return Score{}
	}
	return NewScore(divHalfUp(sum, n))
}

// Band colours for the subject progress bar.
const (
	ColorNoData     = "#e5e7eb"
	ColorFailing    = "#ef4444"
	ColorLow        = "#f97316"
	ColorBorderline = "#facc15"
	ColorPassing    = "#4ade80"
	ColorExcellent  = "#059669"
)

// BandColor picks the progress-bar colour for an average.
func BandColor(avg Score) string {
	if !avg.Valid() {
		return ColorNoData
	}
	switch t := avg.Tenths(); {
	case t <= 10:
		return ColorFailing
	case t < 20:
		return ColorLow
	case t < 30:
		return ColorBorderline
	case t <= 40:
		return ColorPassing
	default:
		return ColorExcellent
	}
}
