// Package loopquery detects per-row storage lookups inside loops.
package loopquery

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer detects single-row storage lookups inside loops that have a
// batch counterpart on the Querier interface.
var Analyzer = &analysis.Analyzer{
	Name:     "loopquery",
	Doc:      "detects per-row storage lookups inside loops that should use batch methods",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// batchable maps per-row lookup methods to their batch counterparts.
var batchable = map[string]string{
	"FindContact": "FindContactsByIDs",
	"FindRecord":  "ListRecords",
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			if batch, found := batchable[sel.Sel.Name]; found {
				pass.Reportf(call.Pos(),
					"potential N+1: %s called inside loop - consider %s",
					sel.Sel.Name, batch)
			}

			return true
		})
	})

	return nil, nil
}
