// Package boil runs the loop analysis pipeline: control-flow graph
// construction, dominator tree, back edge detection and natural loop
// extraction.
//
// An Analyser handles one graph at a time. A Program drives an Analyser over
// every function of an SSA program, and reports each function separately so
// that one malformed function does not stop the others from being analysed.
//
//	a := boil.New(boil.PruneUnreachable(true))
//	res, err := a.AnalyseGraph(ctx, g)
//	if err != nil {
//		// handle error
//	}
//	for _, l := range res.Loops {
//		fmt.Println(l)
//	}
package boil
