package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wonny/probe/backend/internal/contracts"
)

// Output formats for evaluate/submit
const (
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

var outputFormats = []string{OutputJSON, OutputYAML, OutputTable}

func validateOutput(format string) error {
	for _, f := range outputFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (json|yaml|table)", format)
}

// writeResult renders a flag result. bd is optional and only used when explaining.
func writeResult(w io.Writer, format string, result contracts.FlagResult, bd *contracts.Breakdown) error {
	var v interface{} = result
	if bd != nil {
		v = bd
	}

	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()

	case OutputTable:
		writeTable(w, result, bd)
		return nil

	default:
		return validateOutput(format)
	}
}

func writeTable(w io.Writer, result contracts.FlagResult, bd *contracts.Breakdown) {
	var meta [][2]string
	if bd != nil {
		meta = [][2]string{
			{"Period", fmt.Sprintf("#%d %s", bd.PeriodIndex, bd.PeriodNature)},
			{"Revenue", strconv.FormatFloat(bd.TotalRevenue, 'f', -1, 64)},
			{"Borrowing", strconv.FormatFloat(bd.BorrowingRatio, 'f', -1, 64)},
			{"ISCR", strconv.FormatFloat(bd.ISCR, 'f', -1, 64)},
		}
	}
	PrintHeader(w, "Financial Flags", meta)

	widths := []int{28, 12, 4}
	PrintTableHeader(w, []string{"FLAG", "VALUE", "CODE"}, widths)
	for _, name := range contracts.FlagNames {
		f := result.Flags[name]
		PrintTableRow(w, []string{name, f.String(), strconv.Itoa(int(f))}, widths)
	}
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  Summary   : %s\n", summarize(result))
}

// summarize renders flag counts in enum order, e.g. "RED 1, GREEN 2"
func summarize(result contracts.FlagResult) string {
	counts := result.CountByFlag()

	var parts []string
	for f := contracts.FlagRed; f <= contracts.FlagWhite; f++ {
		if n := counts[f]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", f, n))
		}
	}
	return strings.Join(parts, ", ")
}
