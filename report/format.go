package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is an output format of reports.
type Format string

const (
	Text    Format = "text"
	JSON    Format = "json"
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
)

var (
	ErrUnknownFormat = errors.New("unknown report format")
	ErrNotDecodable  = errors.New("report format cannot be decoded")
)

// Formats lists the supported formats.
var Formats = []Format{Text, JSON, YAML, MsgPack}

// ParseFormat returns the Format named s (case insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, format := range Formats {
		if f == format {
			return f, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// Encode writes reports to w in format.
func Encode(w io.Writer, format Format, reports []*FuncReport) error {
	switch format {
	case Text:
		return writeText(w, reports)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(reports), "encoding json")
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return enc.Close()
	case MsgPack:
		return errors.Wrap(msgpack.NewEncoder(w).Encode(reports), "encoding msgpack")
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", format)
}

// Decode reads reports written by Encode in format from r.
// The text format is for reading only and cannot be decoded.
func Decode(r io.Reader, format Format) ([]*FuncReport, error) {
	var reports []*FuncReport
	var err error
	switch format {
	case Text:
		return nil, errors.Wrapf(ErrNotDecodable, "%q", format)
	case JSON:
		err = json.NewDecoder(r).Decode(&reports)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&reports)
	case MsgPack:
		err = msgpack.NewDecoder(r).Decode(&reports)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", format)
	}
	return reports, nil
}

var (
	funcColour  = color.New(color.Bold)
	loopColour  = color.New(color.FgGreen)
	errorColour = color.New(color.FgRed)
	warnColour  = color.New(color.FgYellow)
)

// writeText writes a human readable summary of reports, e.g.
//
//	main.count (main.go:12:6): 1 loop
//	  loop 1: #1 for.loop ← #2 for.body
//	    body: #1 for.loop, #2 for.body
func writeText(w io.Writer, reports []*FuncReport) error {
	bufw := bufio.NewWriter(w)
	for _, r := range reports {
		writeHeading(bufw, r)
		if r.Error != "" {
			errorColour.Fprintf(bufw, "  error: %s\n", r.Error)
			continue
		}
		for i, l := range r.Loops {
			loopColour.Fprintf(bufw, "  loop %d:", i+1)
			fmt.Fprintf(bufw, " %s ← %s\n", r.label(l.Header), r.label(l.Tail))
			fmt.Fprintf(bufw, "    body: %s\n", r.labels(l.Blocks))
			if len(l.Exits) > 0 {
				fmt.Fprintf(bufw, "    exits: %s\n", r.labels(l.Exits))
			}
		}
		if len(r.Unreachable) > 0 {
			warnColour.Fprintf(bufw, "  unreachable: %s\n", r.labels(r.Unreachable))
		}
	}
	return bufw.Flush()
}

func writeHeading(w io.Writer, r *FuncReport) {
	funcColour.Fprint(w, r.Name)
	if r.Pos != "" {
		fmt.Fprintf(w, " (%s)", r.Pos)
	}
	switch {
	case r.Error != "":
		fmt.Fprintln(w, ": loop analysis unavailable")
	case len(r.Loops) == 1:
		fmt.Fprintln(w, ": 1 loop")
	default:
		fmt.Fprintf(w, ": %d loops\n", len(r.Loops))
	}
}

func (r *FuncReport) labels(blocks []int) string {
	s := make([]string, len(blocks))
	for i, b := range blocks {
		s[i] = r.label(b)
	}
	return strings.Join(s, ", ")
}

// WriteDomTree writes the dominator tree of each report to w as an indented
// tree of block labels.
func WriteDomTree(w io.Writer, reports []*FuncReport) error {
	bufw := bufio.NewWriter(w)
	for _, r := range reports {
		funcColour.Fprint(bufw, r.Name)
		if r.Pos != "" {
			fmt.Fprintf(bufw, " (%s)", r.Pos)
		}
		fmt.Fprintln(bufw)
		if r.Error != "" {
			errorColour.Fprintf(bufw, "  error: %s\n", r.Error)
			continue
		}
		children := make([][]int, len(r.Idom))
		for b, idom := range r.Idom {
			if idom >= 0 && idom < len(children) && idom != b {
				children[idom] = append(children[idom], b)
			}
		}
		seen := make([]bool, len(children))
		var visit func(b, depth int)
		visit = func(b, depth int) {
			if seen[b] {
				return
			}
			seen[b] = true
			fmt.Fprintf(bufw, "%s%s\n", strings.Repeat("  ", depth+1), r.label(b))
			for _, c := range children[b] {
				visit(c, depth+1)
			}
		}
		if r.Entry >= 0 && r.Entry < len(children) {
			visit(r.Entry, 0)
		}
		if len(r.Unreachable) > 0 {
			warnColour.Fprintf(bufw, "  unreachable: %s\n", r.labels(r.Unreachable))
		}
	}
	return bufw.Flush()
}
