package validation

import "sort"

const ReportVersion = "1.0"

type Totals struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

type Summary struct {
	Totals Totals `json:"totals"`
}

// Report is the machine-readable output of a validation run.
type Report struct {
	Version string  `json:"version"`
	Summary Summary `json:"summary"`
	Items   []Item  `json:"items"`
}

func NewReport(items []Item) Report {
	report := Report{
		Version: ReportVersion,
		Items:   make([]Item, 0, len(items)),
	}
	for _, item := range items {
		if item.Errors == nil {
			item.Errors = []string{}
		}
		report.Items = append(report.Items, item)
		report.Summary.Totals.Total++
		if item.Valid {
			report.Summary.Totals.Valid++
		} else {
			report.Summary.Totals.Invalid++
		}
	}
	return report
}

// Failed reports whether any item is invalid.
func (r Report) Failed() bool {
	return r.Summary.Totals.Invalid > 0
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
