package tools

import (
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Column type labels follow the conventional tabular-analysis naming: integer
// columns are int64, other numeric columns float64, boolean columns bool,
// everything else object. Missing values promote int64 to float64 and bool to
// object; an all-empty column is float64.
const (
	dtypeInt    = "int64"
	dtypeFloat  = "float64"
	dtypeBool   = "bool"
	dtypeObject = "object"
)

// describeKeys is the full stat set of a mixed-type summary; inapplicable
// entries are rendered as empty strings rather than a null marker.
var describeKeys = []string{"count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}

// profile computes the DataProfile of parsed tabular data.
func profile(header []string, records [][]string) DataProfile {
	p := DataProfile{
		Shape:         [2]int{len(records), len(header)},
		Columns:       header,
		NonNullCounts: make(map[string]int, len(header)),
		Dtypes:        make(map[string]string, len(header)),
		Describe:      make(map[string]map[string]any, len(header)),
		Head:          headRows(header, records),
	}
	for i, name := range header {
		values := columnValues(records, i)
		dtype := inferDtype(values)
		p.Dtypes[name] = dtype
		p.NonNullCounts[name] = nonNullCount(values)
		p.Describe[name] = describeColumn(values, dtype)
	}
	return p
}

func columnValues(records [][]string, col int) []string {
	values := make([]string, len(records))
	for i, rec := range records {
		values[i] = rec[col]
	}
	return values
}

func nonNullCount(values []string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}

// inferDtype picks the narrowest label covering every non-empty cell.
func inferDtype(values []string) string {
	allInt, allFloat, allBool := true, true, true
	hasMissing := false
	seen := false
	for _, v := range values {
		if v == "" {
			hasMissing = true
			continue
		}
		seen = true
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allFloat = false
		}
		if !isBoolLiteral(v) {
			allBool = false
		}
	}
	switch {
	case !seen:
		return dtypeFloat
	case allBool && !hasMissing:
		return dtypeBool
	case allInt && !hasMissing:
		return dtypeInt
	case allFloat:
		return dtypeFloat
	default:
		return dtypeObject
	}
}

func isBoolLiteral(v string) bool {
	switch v {
	case "True", "False", "TRUE", "FALSE", "true", "false":
		return true
	}
	return false
}

func isNumericDtype(dtype string) bool {
	return dtype == dtypeInt || dtype == dtypeFloat
}

// describeColumn produces the full stat set for one column, blank where a
// statistic does not apply to the column's type.
func describeColumn(values []string, dtype string) map[string]any {
	out := make(map[string]any, len(describeKeys))
	for _, k := range describeKeys {
		out[k] = ""
	}
	if isNumericDtype(dtype) {
		xs := numericValues(values)
		out["count"] = float64(len(xs))
		if len(xs) == 0 {
			return out
		}
		slices.Sort(xs)
		out["mean"] = stat.Mean(xs, nil)
		if len(xs) > 1 {
			out["std"] = stat.StdDev(xs, nil)
		}
		out["min"] = floats.Min(xs)
		out["25%"] = quantile(xs, 0.25)
		out["50%"] = quantile(xs, 0.50)
		out["75%"] = quantile(xs, 0.75)
		out["max"] = floats.Max(xs)
		return out
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	out["count"] = float64(nonNullCount(values))
	out["unique"] = float64(len(counts))
	if len(counts) > 0 {
		top, freq := order[0], counts[order[0]]
		for _, v := range order[1:] {
			if counts[v] > freq {
				top, freq = v, counts[v]
			}
		}
		out["top"] = top
		out["freq"] = float64(freq)
	}
	return out
}

func numericValues(values []string) []float64 {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) {
			xs = append(xs, f)
		}
	}
	return xs
}

// quantile computes the q-quantile of sorted xs with linear interpolation
// between closest ranks, the convention of the canonical tabular-analysis
// library.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// headRows renders the first rows as column→typed-value maps; missing cells
// become nulls.
func headRows(header []string, records [][]string) []map[string]any {
	n := min(len(records), headPreviewRows)
	// Column types drive cell parsing so a head cell matches its column dtype.
	dtypes := make([]string, len(header))
	for i := range header {
		dtypes[i] = inferDtype(columnValues(records, i))
	}
	rows := make([]map[string]any, 0, n)
	for _, rec := range records[:n] {
		row := make(map[string]any, len(header))
		for i, name := range header {
			row[name] = cellValue(rec[i], dtypes[i])
		}
		rows = append(rows, row)
	}
	return rows
}

func cellValue(v, dtype string) any {
	if v == "" {
		return nil
	}
	switch dtype {
	case dtypeInt:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case dtypeFloat:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case dtypeBool:
		switch v {
		case "True", "TRUE", "true":
			return true
		case "False", "FALSE", "false":
			return false
		}
	}
	return v
}
