// Package report turns loop analysis results into reports that can be
// printed or exchanged in a machine readable format.
package report

import (
	"fmt"

	"github.com/nickng/boil/block"
	"github.com/nickng/boil/boil"
)

// Edge is an edge between two blocks of a report.
type Edge struct {
	From int `json:"from" yaml:"from" msgpack:"from"`
	To   int `json:"to" yaml:"to" msgpack:"to"`
}

// Loop is a natural loop of a report.
type Loop struct {
	Header int    `json:"header" yaml:"header" msgpack:"header"`
	Tail   int    `json:"tail" yaml:"tail" msgpack:"tail"`
	Blocks []int  `json:"blocks" yaml:"blocks" msgpack:"blocks"`
	Edges  []Edge `json:"edges" yaml:"edges" msgpack:"edges"`
	Exits  []int  `json:"exits,omitempty" yaml:"exits,omitempty" msgpack:"exits,omitempty"`
}

// FuncReport is the report of one function.
// Blocks are referred to by their index in Blocks.
type FuncReport struct {
	Name   string   `json:"name" yaml:"name" msgpack:"name"`
	Pos    string   `json:"pos,omitempty" yaml:"pos,omitempty" msgpack:"pos,omitempty"`
	Blocks []string `json:"blocks,omitempty" yaml:"blocks,omitempty" msgpack:"blocks,omitempty"`
	Entry  int      `json:"entry" yaml:"entry" msgpack:"entry"`
	// Idom is the immediate dominator of each block, -1 for the entry and
	// blocks outside the dominator tree.
	Idom        []int  `json:"idom,omitempty" yaml:"idom,omitempty" msgpack:"idom,omitempty"`
	BackEdges   []Edge `json:"back_edges" yaml:"back_edges" msgpack:"back_edges"`
	Loops       []Loop `json:"loops" yaml:"loops" msgpack:"loops"`
	Unreachable []int  `json:"unreachable,omitempty" yaml:"unreachable,omitempty" msgpack:"unreachable,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error,omitempty"`
}

// FromResult makes the report of function name at pos from res.
// labels names the blocks of the graph, block indices are used if nil.
func FromResult(name, pos string, res *boil.Result, labels []string) *FuncReport {
	n := res.Graph.NumBlocks()
	if labels == nil {
		labels = make([]string, n)
		for i := range labels {
			labels[i] = fmt.Sprintf("%d", i)
		}
	}
	r := &FuncReport{
		Name:        name,
		Pos:         pos,
		Blocks:      labels,
		Entry:       res.DomTree.Entry(),
		Idom:        make([]int, n),
		BackEdges:   []Edge{},
		Loops:       []Loop{},
		Unreachable: res.Unreachable,
	}
	for b := range r.Idom {
		idom, ok := res.DomTree.Idom(b)
		if !ok {
			idom = -1
		}
		r.Idom[b] = idom
	}
	for _, be := range res.BackEdges {
		r.BackEdges = append(r.BackEdges, Edge{From: be.From, To: be.To})
	}
	for _, l := range res.Loops {
		loop := Loop{
			Header: l.Header,
			Tail:   l.Tail(),
			Blocks: l.Body.Blocks,
			Exits:  l.Exits(res.Graph),
		}
		for _, e := range l.Body.Edges {
			loop.Edges = append(loop.Edges, Edge{From: e.From, To: e.To})
		}
		r.Loops = append(r.Loops, loop)
	}
	return r
}

// Failed makes the report of function name at pos which could not be
// analysed.
func Failed(name, pos string, err error) *FuncReport {
	return &FuncReport{Name: name, Pos: pos, Error: err.Error()}
}

// FromProgram makes the reports of all analysed functions of p.
func FromProgram(p *boil.Program) []*FuncReport {
	reports := make([]*FuncReport, 0, len(p.Results))
	for _, res := range p.Results {
		if res == nil {
			continue
		}
		name := res.Func.String()
		pos := ""
		if p.Info != nil && p.Info.FSet != nil && res.Func.Pos().IsValid() {
			pos = p.Info.FSet.Position(res.Func.Pos()).String()
		}
		if res.Err != nil {
			reports = append(reports, Failed(name, pos, res.Err))
			continue
		}
		reports = append(reports, FromResult(name, pos, res.Result, labelsOf(res)))
	}
	return reports
}

func labelsOf(res *boil.FuncResult) []string {
	if res.Blocks == nil {
		return nil
	}
	return block.Labels(res.Blocks)
}

// label returns the label of block b.
func (r *FuncReport) label(b int) string {
	if b >= 0 && b < len(r.Blocks) {
		return r.Blocks[b]
	}
	return fmt.Sprintf("%d", b)
}

// NumLoops returns the total number of loops in reports.
func NumLoops(reports []*FuncReport) int {
	n := 0
	for _, r := range reports {
		n += len(r.Loops)
	}
	return n
}
