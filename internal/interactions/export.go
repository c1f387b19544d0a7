package interactions

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/hotelrag/internal/models"
)

// ExportSheet is the worksheet name used by ExportXLSX.
const ExportSheet = "Interactions"

var exportHeader = []interface{}{
	"Timestamp", "Query", "Intent", "Question", "Numeric", "Response", "Context Snippet", "Retrieved Docs", "ID",
}

// ExportXLSX writes records to a spreadsheet at path, one row per interaction after a header row.
// Retrieved documents are listed by corpus position.
func ExportXLSX(records []models.InteractionRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(ExportSheet, "A1", "I1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.Timestamp.Format(time.RFC3339),
			rec.Query,
			rec.QueryInfo.DetectedIntent.String(),
			rec.QueryInfo.IsQuestion,
			rec.QueryInfo.RequiresNumericalAnswer,
			rec.Response,
			rec.ContextSnippet,
			docPositions(rec.RetrievedDocs),
			rec.ID,
		}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(ExportSheet, "B", "B", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(ExportSheet, "F", "G", 60); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	return nil
}

func docPositions(docs []models.RetrievedDocument) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = strconv.Itoa(d.Position)
	}
	return strings.Join(parts, ", ")
}
