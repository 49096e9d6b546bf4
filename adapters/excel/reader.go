package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"movilidad/domain/dataset"
)

// DataReader handles reading Excel and CSV files into frames
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadFrame reads the CSV file, or the first sheet of a workbook
func (r *DataReader) ReadFrame() (*dataset.Frame, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		sheets, err := r.SheetNames()
		if err != nil {
			return nil, err
		}
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets: %s", r.filePath)
		}
		return r.ReadSheet(sheets[0])
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// SheetNames lists the sheets of a workbook in workbook order
func (r *DataReader) SheetNames() ([]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// ReadSheet reads one named sheet
func (r *DataReader) ReadSheet(sheet string) (*dataset.Frame, error) {
	sheets, err := r.ReadSheets(sheet)
	if err != nil {
		return nil, err
	}
	return sheets[sheet], nil
}

// ReadSheets reads the named sheets, or every sheet when none are named,
// opening the workbook once
func (r *DataReader) ReadSheets(names ...string) (map[string]*dataset.Frame, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	log.Printf("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	if len(names) == 0 {
		names = f.GetSheetList()
	}
	out := make(map[string]*dataset.Frame, len(names))
	for _, sheet := range names {
		readStart := time.Now()
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
		frame, err := r.processRows(rows)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		out[sheet] = frame
	}
	return out, nil
}

// readCSVData reads CSV data into a frame
func (r *DataReader) readCSVData() (*dataset.Frame, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// processRows converts raw string rows into a frame. The first row is the
// header; a header-only file yields an empty frame.
func (r *DataReader) processRows(rows [][]string) (*dataset.Frame, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s file has no header row", strings.ToUpper(r.fileType))
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		header = strings.TrimSpace(header)
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		headers[i] = header
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				cells[j] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, cells)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return dataset.NewFrame(headers, dataRows), nil
}
