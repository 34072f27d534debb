// recordstore-lint is a custom static analyzer for recordstore performance patterns.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/firecoast/recordstore/tools/recordstore-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
