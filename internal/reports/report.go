// Package reports renders persisted automation runs into operator-facing
// documents.
package reports

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"growmind-cloud/internal/rules/application"
)

const timeLayout = time.RFC3339

// Format selects the report output format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a raw string to a format.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("reports: unsupported format %q", raw)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Write renders the run record in the given format.
func Write(record *application.RunRecord, format Format, w io.Writer) error {
	if record == nil {
		return errors.New("reports: nil record")
	}
	if w == nil {
		return errors.New("reports: nil writer")
	}
	switch format {
	case FormatXLSX:
		return writeXLSX(record, w)
	case FormatPDF:
		return writePDF(record, w)
	default:
		return fmt.Errorf("reports: unsupported format %q", format)
	}
}

func writeXLSX(record *application.RunRecord, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Run"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	header := [][]any{
		{"Run", record.ID},
		{"Mode", string(record.Mode)},
		{"Started", record.StartedAt.Format(timeLayout)},
		{"Finished", record.FinishedAt.Format(timeLayout)},
		{"Evaluated", record.Evaluated},
		{"Matched", record.Matched},
		{"Resolved", record.Resolved},
		{"Succeeded", record.Succeeded},
		{"Failed", record.Failed},
	}
	row := 1
	for _, pair := range header {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &pair); err != nil {
			return err
		}
		row++
	}

	row++
	verdictHeader := []any{"Rule", "Name", "Priority", "Verdict"}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &verdictHeader); err != nil {
		return err
	}
	row++
	for _, verdict := range record.Verdicts {
		line := []any{verdict.RuleID, verdict.RuleName, string(verdict.Priority), string(verdict.Verdict)}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return err
		}
		row++
	}

	if len(record.Failures) > 0 {
		row++
		failureHeader := []any{"Rule", "Name", "Kind", "Detail"}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &failureHeader); err != nil {
			return err
		}
		row++
		for _, failure := range record.Failures {
			line := []any{failure.RuleID, failure.RuleName, string(failure.Kind), failure.Detail}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &line); err != nil {
				return err
			}
			row++
		}
	}

	return f.Write(w)
}

func writePDF(record *application.RunRecord, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Automation run %s", record.ID))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Mode: %s", record.Mode),
		fmt.Sprintf("Started: %s", record.StartedAt.Format(timeLayout)),
		fmt.Sprintf("Finished: %s", record.FinishedAt.Format(timeLayout)),
		fmt.Sprintf("Evaluated: %d  Matched: %d  Resolved: %d  Succeeded: %d  Failed: %d",
			record.Evaluated, record.Matched, record.Resolved, record.Succeeded, record.Failed),
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Verdicts")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	for _, verdict := range record.Verdicts {
		pdf.Cell(0, 5, fmt.Sprintf("%s  [%s]  %s", verdict.RuleName, verdict.Priority, verdict.Verdict))
		pdf.Ln(5)
	}

	if len(record.Failures) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, "Failures")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 9)
		for _, failure := range record.Failures {
			pdf.Cell(0, 5, fmt.Sprintf("%s  %s: %s", failure.RuleName, failure.Kind, failure.Detail))
			pdf.Ln(5)
		}
	}

	return pdf.Output(w)
}
