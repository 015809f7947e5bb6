package relevance

import (
	"math"
	"strings"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/fuzzy"
)

// LabelConfidence buckets a score: >=90 high, >=80 medium, otherwise low.
func LabelConfidence(score int) Confidence {
	switch {
	case score >= HighCutoff:
		return HighRelevance
	case score >= MediumCutoff:
		return MediumRelevance
	default:
		return LowRelevance
	}
}

// ScoreRow scores term against the advertiser name and against
// "brand market", keeping the better of the two. Comparison is
// case-insensitive.
func ScoreRow(term string, p Profile) (int, Confidence) {
	return scoreNormalized(strings.ToLower(term), p.normalized())
}

func scoreNormalized(term string, np normalizedProfile) (int, Confidence) {
	score := max(
		fuzzy.TokenSetRatio(term, np.name),
		fuzzy.TokenSetRatio(term, np.combo),
	)
	return score, LabelConfidence(score)
}

// ScoreAndFlag scores every row of t in order and splits out the rows
// scoring strictly below threshold. Only search_term, fuzzy_score and
// confidence survive into the result.
func ScoreAndFlag(t Table, p Profile, threshold float64) (*Result, error) {
	if math.IsNaN(threshold) || threshold < MinScore || threshold > MaxScore {
		return nil, ErrThresholdRange
	}

	col, err := ResolveSearchTermColumn(t.Columns)
	if err != nil {
		return nil, err
	}

	np := p.normalized()
	result := &Result{
		Full:      make([]ScoredRow, 0, len(t.Rows)),
		Negatives: []ScoredRow{},
		Threshold: threshold,
	}

	for _, row := range t.Rows {
		term := cellAt(row, col)
		if IsMissing(term) {
			term = ""
		}
		score, label := scoreNormalized(strings.ToLower(termText(term)), np)
		scored := ScoredRow{SearchTerm: term, FuzzyScore: score, Confidence: label}

		result.Full = append(result.Full, scored)
		if float64(score) < threshold {
			result.Negatives = append(result.Negatives, scored)
		}
	}

	return result, nil
}

func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// IsMissing reports whether a cell is empty or holds one of the spreadsheet
// null markers. Matching is exact.
func IsMissing(cell string) bool {
	_, ok := missingTokens[cell]
	return ok
}

// termText is the text a cell is scored as; missing cells become "nan".
func termText(raw string) string {
	if raw == "" {
		return MissingValue
	}
	return raw
}
