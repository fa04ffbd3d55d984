// Package report formats and outputs mutation testing results.
package report

import (
	"errors"

	"github.com/mutantia/mutantia/internal/configuration"
	"github.com/mutantia/mutantia/internal/log"
	"github.com/mutantia/mutantia/internal/outcome"
)

// Filter maps the Outcomes that should be logged.
type Filter = map[outcome.Outcome]struct{}

// ErrInvalidFilter is returned when an invalid status filter string is provided.
var ErrInvalidFilter = errors.New("invalid statuses filter, only 'cskrtb' letters allowed")

// SiteLogger prints SiteResults based on filter and verbosity flags.
type SiteLogger struct {
	Filter
}

// NewLogger creates a new SiteLogger with filters from configuration.
func NewLogger() SiteLogger {
	outputStatuses := configuration.Get[string](configuration.MutateOutputStatusesKey)
	f, err := ParseFilter(outputStatuses)
	if err != nil {
		log.Infof("output-statuses filter not applied: %s\n", err)
	}

	return SiteLogger{
		Filter: f,
	}
}

// Site logs a SiteResult if it passes the filter.
func (l SiteLogger) Site(s SiteResult) {
	if l.Filter == nil {
		Site(s)

		return
	}

	if _, ok := l.Filter[s.Outcome]; ok {
		Site(s)
	}
}

// ParseFilter parses a status filter string into a Filter map.
// Valid characters are 'cskrtb':
//
//	c: not covered
//	s: skipped
//	k: killed
//	r: survived
//	t: timed out
//	b: build error
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return nil, nil
	}

	result := Filter{}

	for _, r := range s {
		switch r {
		case 'c':
			result[outcome.NotCovered] = struct{}{}
		case 's':
			result[outcome.Skipped] = struct{}{}
		case 'k':
			result[outcome.Killed] = struct{}{}
		case 'r':
			result[outcome.Survived] = struct{}{}
		case 't':
			result[outcome.Timeout] = struct{}{}
		case 'b':
			result[outcome.BuildError] = struct{}{}
		default:
			return nil, ErrInvalidFilter
		}
	}

	return result, nil
}
