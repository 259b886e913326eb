// Package seo defines the domain model shared by the audit pipeline:
// check statuses, per-category results, the composed analysis report and
// the request error taxonomy.
package seo

import "encoding/json"

// Status classifies the outcome of a single check. The set is closed;
// scoring weights and severity ordering are defined here so the scorer
// and any renderer cannot diverge.
type Status int

const (
	StatusExcellent Status = iota
	StatusGood
	StatusFair
	StatusNeutral
	StatusWarning
	StatusPoor
	StatusCritical
	StatusError
)

// FullWeight is the contribution of a single excellent check to its
// category's MaxScore.
const FullWeight = 4.0

var statusNames = map[Status]string{
	StatusExcellent: "excellent",
	StatusGood:      "good",
	StatusFair:      "fair",
	StatusNeutral:   "neutral",
	StatusWarning:   "warning",
	StatusPoor:      "poor",
	StatusCritical:  "critical",
	StatusError:     "error",
}

// statusWeights maps each status to its scoring contribution. The table
// is the policy decision the scorer rounds over: excellent earns full
// weight, good 0.8x, fair and neutral 0.5x, warning 0.25x, and
// poor/critical/error nothing.
var statusWeights = map[Status]float64{
	StatusExcellent: FullWeight,
	StatusGood:      FullWeight * 0.8,
	StatusFair:      FullWeight * 0.5,
	StatusNeutral:   FullWeight * 0.5,
	StatusWarning:   FullWeight * 0.25,
	StatusPoor:      0,
	StatusCritical:  0,
	StatusError:     0,
}

// String returns the wire name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "error"
}

// Weight returns the scoring contribution of the status.
func (s Status) Weight() float64 {
	return statusWeights[s]
}

// Severity orders statuses from best (0) to worst. Critical and error
// share the bottom rank.
func (s Status) Severity() int {
	if s == StatusError {
		return int(StatusCritical)
	}
	return int(s)
}

// MarshalJSON encodes the status as its wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire name back into a Status. Unknown names
// decode to StatusError rather than failing the document.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for status, n := range statusNames {
		if n == name {
			*s = status
			return nil
		}
	}
	*s = StatusError
	return nil
}
