package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/probe/backend/internal/contracts"
	"github.com/wonny/probe/backend/internal/flags"
)

// Sheet names
const (
	SheetFlags  = "Flags"
	SheetRatios = "Ratios"
)

// flagFill is the cell background per flag
var flagFill = map[contracts.Flag]string{
	contracts.FlagRed:        "F4CCCC",
	contracts.FlagGreen:      "D9EAD3",
	contracts.FlagAmber:      "FCE5CD",
	contracts.FlagMediumRisk: "FFF2CC",
	contracts.FlagWhite:      "FFFFFF",
}

// Workbook renders a Breakdown as an xlsx workbook for analysts
// ⭐ SSOT: 엑셀 리포트 레이아웃은 여기서만
type Workbook struct {
	Source      string    // input file name shown in the header
	GeneratedAt time.Time // zero means time.Now()
}

// Write renders bd and writes the workbook to w
func (wb Workbook) Write(w io.Writer, bd contracts.Breakdown) error {
	f, err := wb.build(bd)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save renders bd into a file at path
func (wb Workbook) Save(path string, bd contracts.Breakdown) error {
	f, err := wb.build(bd)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func (wb Workbook) build(bd contracts.Breakdown) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetFlags); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetRatios); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := wb.writeFlags(f, bd); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRatios(f, bd); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func (wb Workbook) writeFlags(f *excelize.File, bd contracts.Breakdown) error {
	generated := wb.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	rows := [][]interface{}{
		{"Source", wb.Source},
		{"Generated", generated.Format(time.RFC3339)},
		{"Period", fmt.Sprintf("#%d %s", bd.PeriodIndex, bd.PeriodNature)},
		{},
		{"Flag", "Value", "Code"},
	}
	for i, row := range rows {
		if err := setRow(f, SheetFlags, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetFlags, "A5", "C5", header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, name := range contracts.FlagNames {
		row := 6 + i
		flag := bd.Result.Flags[name]
		if err := setRow(f, SheetFlags, row, []interface{}{name, flag.String(), int(flag)}); err != nil {
			return err
		}

		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{flagFill[flag]}},
		})
		if err != nil {
			return fmt.Errorf("flag style: %w", err)
		}
		cell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellStyle(SheetFlags, cell, cell, style); err != nil {
			return fmt.Errorf("style flag: %w", err)
		}
	}

	return f.SetColWidth(SheetFlags, "A", "A", 32)
}

func writeRatios(f *excelize.File, bd contracts.Breakdown) error {
	rows := [][]interface{}{
		{"Metric", "Value", "Green when"},
		{"Total revenue", bd.TotalRevenue, fmt.Sprintf(">= %.0f", flags.Revenue5CrGreenMin)},
		{"Borrowing / revenue", bd.BorrowingRatio, fmt.Sprintf("(ratio / revenue) <= %.2f", flags.BorrowingRatioMaxGood)},
		{"ISCR", bd.ISCR, fmt.Sprintf(">= %.0f", flags.ISCRGreenMin)},
	}
	for i, row := range rows {
		if err := setRow(f, SheetRatios, i+1, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetRatios, "A", "C", 24)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
