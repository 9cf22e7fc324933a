package validation

import "fmt"

// Level indicates which processing stage produced the result.
type Level string

const (
	LevelSchema   Level = "schema"
	LevelInput    Level = "input"
	LevelGeometry Level = "geometry"
	LevelShading  Level = "shading"
	LevelZoning   Level = "zoning"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is a single diagnostic finding.
type Result struct {
	Level       Level    `json:"level"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Path        string   `json:"path,omitempty"`
	ActualValue any      `json:"actual_value,omitempty"`
	Expected    string   `json:"expected,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Report collects the diagnostics of one conversion. Errors are fatal for the
// feature being processed; warnings mean geometry was skipped or approximated.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
	r.updateSummary()
	return r
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(result Result) {
	result.Severity = SeverityError
	r.Errors = append(r.Errors, result)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(result Result) {
	result.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, result)
	r.updateSummary()
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(result Result) {
	result.Severity = SeverityInfo
	r.Info = append(r.Info, result)
	r.updateSummary()
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

// Scoped returns a copy of other with prefix prepended to every result path.
// Used to attribute per-ring or per-story diagnostics to their feature.
func Scoped(prefix string, other *Report) *Report {
	out := NewReport()
	scope := func(in []Result) []Result {
		res := make([]Result, len(in))
		for i, e := range in {
			if e.Path == "" {
				e.Path = prefix
			} else {
				e.Path = prefix + "." + e.Path
			}
			res[i] = e
		}
		return res
	}
	out.Errors = scope(other.Errors)
	out.Warnings = scope(other.Warnings)
	out.Info = scope(other.Info)
	out.Valid = other.Valid
	out.updateSummary()
	return out
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}
