package model

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const statementSheet = "Statement"

// StatementHeader identifies the stay a statement belongs to.
type StatementHeader struct {
	BookingID    string
	GuestName    string
	CheckInDate  string
	CheckOutDate string
	ClosedAt     string
}

var entryColumns = []string{"Date", "Type", "Category / Method", "Description", "Amount"}

// RenderStatement writes the folio as a single-sheet workbook: stay header, one row per
// entry in posting order, then the totals.
func RenderStatement(header StatementHeader, items []Item, payments []Payment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(statementSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err = f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	f.SetActiveSheet(index)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rows := [][]any{
		{"Booking", header.BookingID},
		{"Guest", header.GuestName},
		{"Stay", header.CheckInDate + " - " + header.CheckOutDate},
		{"Closed at", header.ClosedAt},
		{},
	}

	columns := make([]any, len(entryColumns))
	for i, column := range entryColumns {
		columns[i] = column
	}

	rows = append(rows, columns)
	headerRow := len(rows)

	for _, item := range items {
		rows = append(rows, []any{item.CreatedAt.Format("2006-01-02 15:04"), "charge", string(item.Category), item.Description, item.Amount.StringFixed(2)})
	}

	for _, payment := range payments {
		rows = append(rows, []any{payment.PaidAt.Format("2006-01-02 15:04"), "payment", string(payment.Method), payment.Reference, payment.Amount.Neg().StringFixed(2)})
	}

	totals := ComputeTotals(items, payments)
	rows = append(rows,
		[]any{},
		[]any{"", "", "", "Total charges", totals.TotalCharges.StringFixed(2)},
		[]any{"", "", "", "Total paid", totals.TotalPaid.StringFixed(2)},
		[]any{"", "", "", "Balance", totals.Balance.StringFixed(2)},
	)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}

		if err := f.SetSheetRow(statementSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err = f.SetRowStyle(statementSheet, headerRow, headerRow, bold); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	if err = f.SetColWidth(statementSheet, "A", "E", 22); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	buf := new(bytes.Buffer)
	if err = f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
