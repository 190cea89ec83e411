package importer

import "fmt"

// Result tracks row counts and errors from one dump import.
type Result struct {
	Teams     int
	Locations int
	Seasons   int
	Games     int
	Errors    []string
}

// AddError records an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the import.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"teams=%d locations=%d seasons=%d games=%d errors=%d",
		r.Teams, r.Locations, r.Seasons, r.Games, len(r.Errors),
	)
}
