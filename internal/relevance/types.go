// Package relevance scores search terms against an advertiser's identity and
// partitions them into the full scored set and negative-keyword candidates.
package relevance

import (
	"fmt"
	"strings"
)

// SearchTermColumn is the only column a search-term report must carry.
const SearchTermColumn = "search_term"

// MissingValue is the text a missing search term is scored as.
const MissingValue = "nan"

// missingTokens are the cell values read as missing.
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Score bounds and label cut-offs.
const (
	MinScore         = 0
	MaxScore         = 100
	HighCutoff       = 90
	MediumCutoff     = 80
	DefaultThreshold = 80
)

// Confidence is the relevance bucket derived from a score.
type Confidence string

const (
	HighRelevance   Confidence = "High Relevance"
	MediumRelevance Confidence = "Medium Relevance"
	LowRelevance    Confidence = "Low Relevance"
)

// Profile identifies the advertiser a report is scored against.
type Profile struct {
	Name   string `json:"name"`
	Brand  string `json:"brand"`
	Market string `json:"market"`
}

// normalizedProfile holds the lowercased comparison strings for one run.
type normalizedProfile struct {
	name  string
	combo string
}

func (p Profile) normalized() normalizedProfile {
	return normalizedProfile{
		name:  strings.ToLower(p.Name),
		combo: strings.ToLower(p.Brand) + " " + strings.ToLower(p.Market),
	}
}

// Table is a header row plus data rows as read from a report. Rows may be
// shorter than Columns; absent cells are missing values.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ScoredRow is one scored search term. SearchTerm is the source text as
// read, empty when the source cell was missing.
type ScoredRow struct {
	SearchTerm string     `json:"search_term"`
	FuzzyScore int        `json:"fuzzy_score"`
	Confidence Confidence `json:"confidence"`
}

// Result is the outcome of one scoring pass. Negatives is the ordered subset
// of Full whose score is strictly below Threshold.
type Result struct {
	Full      []ScoredRow `json:"full"`
	Negatives []ScoredRow `json:"negatives"`
	Threshold float64     `json:"threshold"`
}

// FlaggedMessage is the operator feedback line for a run.
func (r *Result) FlaggedMessage() string {
	return fmt.Sprintf("%d terms flagged as negative (Low Relevance)", len(r.Negatives))
}
