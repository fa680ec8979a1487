// Package spreadsheet reads and writes the flavor catalog as XLSX.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/heladeria/flavor-catalog/internal/app/model"
	"github.com/heladeria/flavor-catalog/internal/app/service"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Flavors"

// Header is the first row of every exported sheet, and the column order
// expected on import.
var Header = []string{"Name", "Description", "Price", "Available", "Image Path"}

const (
	colName = iota
	colDescription
	colPrice
	colAvailable
	colImagePath
)

// RowError describes a row that could not be turned into a FlavorInput.
// Row is the 1-based sheet row.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// WriteFlavors writes one sheet with a header row and one row per flavor.
func WriteFlavors(w io.Writer, flavors []model.Flavor) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, fl := range flavors {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{fl.Name, fl.DescriptionText(), fl.Price, fl.Available, fl.ImagePath}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write flavor %q: %w", fl.Name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ReadFlavors parses the first sheet of r. The first row is treated as a
// header and skipped. Blank rows are ignored; rows that cannot be parsed are
// reported in the returned RowErrors and left out of the inputs. Validation
// beyond parsing is left to the service.
func ReadFlavors(r io.Reader) ([]service.FlavorInput, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var (
		inputs    []service.FlavorInput
		rowErrors []RowError
	)
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		in, err := parseRow(row)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs, rowErrors, nil
}

func parseRow(row []string) (service.FlavorInput, error) {
	var in service.FlavorInput

	name := cell(row, colName)
	in.Name = &name

	if desc := cell(row, colDescription); desc != "" {
		in.Description = &desc
	}

	priceStr := cell(row, colPrice)
	if priceStr == "" {
		return in, fmt.Errorf("price is required")
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return in, fmt.Errorf("price %q is not a number", priceStr)
	}
	in.Price = &price

	if availStr := cell(row, colAvailable); availStr != "" {
		available, err := parseAvailable(availStr)
		if err != nil {
			return in, err
		}
		in.Available = &available
	}

	if img := cell(row, colImagePath); img != "" {
		in.ImagePath = &img
	}
	return in, nil
}

func parseAvailable(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1", "si", "sí":
		return true, nil
	case "false", "no", "n", "0":
		return false, nil
	}
	return false, fmt.Errorf("available %q must be yes or no", s)
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
