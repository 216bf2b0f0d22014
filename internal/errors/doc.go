// Package errors provides structured, actionable error messages for memokit.
//
// Every error carries a code (e.g. "E002") that maps to a short message, a
// longer explanation and a documentation link. Hook misuse detected during a
// render pass panics with one of these errors so the panic value explains
// itself when printed.
//
// # Error Categories
//
//   - runtime: hook misuse during render (wrong order, outside a render pass)
//   - validation: bad input at an outer surface (toast HTTP API)
//   - config: invalid memokit.json / memokit.yaml
//   - cli: command line failures
//
// # Usage
//
//	err := errors.New("E002").
//	    WithLocation("app/counter.go", 15, 0).
//	    WithSuggestion("Call hooks unconditionally at the top level of the render function")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E002: Hook order changed between renders
//	//
//	//   app/counter.go:15
//	//
//	//     13 │ func Counter(inst *hooks.Instance, p Props) View {
//	//     14 │     if p.Fancy {
//	//   → 15 │         hooks.UseMemo(inst, fancy, hooks.Deps{p.ID})
//	//     16 │     }
//	//     17 │ }
//	//
//	//   Hint: Call hooks unconditionally at the top level of the render function
package errors
