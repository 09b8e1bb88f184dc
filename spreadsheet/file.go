package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Connaissances"

var columnWidths = map[string]float64{
	"A": 25, "B": 20, "C": 50, "D": 18, "E": 80, "F": 80, "G": 18, "H": 20,
}

// ReadFile reads an uploaded knowledge file. ".csv" files are read as semicolon separated text, anything
// else as an xlsx workbook.
func ReadFile(name string, r io.Reader) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return readCSV(r)
	}
	return ReadXLSX(r)
}

// ReadXLSX returns the cells of the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: aucune feuille", ErrUnreadable)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return rows, nil
}

// WriteXLSX writes the table as a single sheet workbook with a bold header line.
func WriteXLSX(w io.Writer, table [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	for i, line := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(line))
		for j, v := range line {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return err
	}

	return f.Write(w)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return rows, nil
}
