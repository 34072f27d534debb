// Package analyzers provides all custom static analyzers for recordstore.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/firecoast/recordstore/tools/recordstore-lint/analyzers/loopquery"
	"github.com/firecoast/recordstore/tools/recordstore-lint/analyzers/regexloop"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		loopquery.Analyzer,
		regexloop.Analyzer,
	}
}
