package tools

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flowagent "github.com/dpujaa/flow-agent"
)

const headPreviewRows = 5

// AnalyzeArgs are the arguments of the analyze_csv tool. Exactly one of CSV
// (inline content) or Path must be usable; Path takes precedence when both
// are present.
type AnalyzeArgs struct {
	CSV  string `json:"csv,omitempty" description:"Inline CSV content"`
	Path string `json:"path,omitempty" description:"Path to a CSV file"`
}

// Validate rejects calls that provide neither input.
func (a AnalyzeArgs) Validate() error {
	if strings.TrimSpace(a.CSV) == "" && a.Path == "" {
		return errors.New("provide csv (string) or path")
	}
	return nil
}

// DataProfile is the profiling summary of one tabular input.
type DataProfile struct {
	Shape         [2]int                    `json:"shape"`
	Columns       []string                  `json:"columns"`
	NonNullCounts map[string]int            `json:"non_null_counts"`
	Dtypes        map[string]string         `json:"dtypes"`
	Describe      map[string]map[string]any `json:"describe"`
	Head          []map[string]any          `json:"head"`
}

// NewAnalyzeCSV builds the analyze_csv tool.
func NewAnalyzeCSV() (flowagent.Tool, error) {
	return flowagent.NewTool(
		"analyze_csv",
		"Analyze CSV data from a file path or inline CSV content. Provide either 'csv' or 'path'.",
		analyzeCSV,
		flowagent.WithTags("data"),
	)
}

func analyzeCSV(_ context.Context, args AnalyzeArgs) (DataProfile, error) {
	var r io.Reader
	if args.Path != "" {
		f, err := os.Open(args.Path)
		if err != nil {
			return DataProfile{}, &flowagent.ClientError{Reason: fmt.Sprintf("open %s: %v", args.Path, err)}
		}
		defer f.Close()
		r = f
	} else {
		r = strings.NewReader(args.CSV)
	}

	header, records, err := readTable(r)
	if err != nil {
		return DataProfile{}, &flowagent.ClientError{Reason: "parse csv: " + err.Error()}
	}
	return profile(header, records), nil
}

// readTable parses delimited input with a header row. Ragged rows are padded
// or truncated to the header width.
func readTable(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, errors.New("no header row")
	}
	if err != nil {
		return nil, nil, err
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		} else if len(rec) > len(header) {
			rec = rec[:len(header)]
		}
		records = append(records, rec)
	}
	return header, records, nil
}
