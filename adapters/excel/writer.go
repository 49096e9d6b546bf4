package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/xuri/excelize/v2"

	"movilidad/domain/dataset"
)

// WriteCSV writes frame with a header row
func WriteCSV(path string, frame *dataset.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(frame.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := 0; i < frame.Len(); i++ {
		if err := w.Write(frame.Row(i)); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteWorkbook writes one sheet per entry, sheets sorted by name
func WriteWorkbook(path string, sheets map[string]*dataset.Frame) error {
	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, sheets[name]); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, frame *dataset.Frame) error {
	header := frame.Columns()
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i := 0; i < frame.Len(); i++ {
		if err := setRow(f, sheet, i+2, frame.Row(i)); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
