// Package results defines the persisted results schema and the CSV writer.
package results

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/fitassess/internal/exercise"
)

// TimeLayout is the timestamp format of a results row.
const TimeLayout = "2006-01-02T15:04:05"

// Header is the fixed column order of the results file.
var Header = []string{"timestamp", "exercise", "component", "reps", "duration", "score", "form_errors", "feedback"}

// Record is one exercise outcome.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	Exercise   string    `json:"exercise"`
	Component  string    `json:"component"`
	Reps       int       `json:"reps"`
	Duration   float64   `json:"duration"`
	Score      float64   `json:"score"`
	FormErrors int       `json:"form_errors"`
	Feedback   string    `json:"feedback"`
}

// NewRecord builds a record from a finalized tracker snapshot. Duration is
// rounded to one decimal and feedback is flattened to a single line.
func NewRecord(st exercise.Stats, feedback string, now time.Time) Record {
	return Record{
		Timestamp:  now.Truncate(time.Second),
		Exercise:   st.Name,
		Component:  st.Component,
		Reps:       st.Reps,
		Duration:   math.Round(st.Duration*10) / 10,
		Score:      st.Score,
		FormErrors: st.FormErrors,
		Feedback:   FlattenFeedback(feedback),
	}
}

// FlattenFeedback joins multi-line feedback with " | ".
func FlattenFeedback(s string) string {
	return strings.ReplaceAll(s, "\n", " | ")
}

// Row returns the record as CSV fields in Header order.
func (r Record) Row() []string {
	return []string{
		r.Timestamp.Format(TimeLayout),
		r.Exercise,
		r.Component,
		strconv.Itoa(r.Reps),
		strconv.FormatFloat(r.Duration, 'f', 1, 64),
		strconv.FormatFloat(r.Score, 'f', 1, 64),
		strconv.Itoa(r.FormErrors),
		r.Feedback,
	}
}

// ParseRow is the inverse of Row.
func ParseRow(row []string) (Record, error) {
	if len(row) != len(Header) {
		return Record{}, ErrBadRow
	}
	ts, err := time.Parse(TimeLayout, row[0])
	if err != nil {
		return Record{}, err
	}
	reps, err := strconv.Atoi(row[3])
	if err != nil {
		return Record{}, err
	}
	dur, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return Record{}, err
	}
	score, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return Record{}, err
	}
	fe, err := strconv.Atoi(row[6])
	if err != nil {
		return Record{}, err
	}
	return Record{
		Timestamp:  ts,
		Exercise:   row[1],
		Component:  row[2],
		Reps:       reps,
		Duration:   dur,
		Score:      score,
		FormErrors: fe,
		Feedback:   row[7],
	}, nil
}
