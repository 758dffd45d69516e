package consolidation

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// ExportFormat формат экспорта матрицы трассируемости
type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

// Exporter экспортер результата консолидации
type Exporter struct {
	result *ConsolidationResult
}

// NewExporter создает экспортер для результата консолидации
func NewExporter(result *ConsolidationResult) *Exporter {
	return &Exporter{result: result}
}

// WriteJSON пишет полный результат в JSON
func (e *Exporter) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(e.result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// ExportToJSON экспортирует полный результат в JSON файл
func (e *Exporter) ExportToJSON(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()
	return e.WriteJSON(file)
}

var matrixHeaders = []string{
	"Framework", "Requirement ID", "Code",
	"Unified Requirement", "Category", "Subsection",
	"Mapping Type", "Confidence",
}

// WriteMatrixCSV пишет матрицу трассируемости в CSV
func (e *Exporter) WriteMatrixCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(matrixHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, entry := range e.result.Matrix {
		record := []string{
			entry.FrameworkID,
			entry.FrameworkRequirementID,
			entry.RequirementCode,
			entry.UnifiedRequirementID,
			entry.CategoryID,
			entry.SubsectionLetter,
			string(entry.MappingType),
			fmt.Sprintf("%.2f", entry.Confidence),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}

// ExportToCSV экспортирует матрицу трассируемости в CSV файл
func (e *Exporter) ExportToCSV(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()
	return e.WriteMatrixCSV(file)
}

// BuildExcel строит Excel книгу с матрицей и сводкой.
// Вызывающая сторона обязана закрыть файл.
func (e *Exporter) BuildExcel() (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	sheetName := "Traceability Matrix"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	for i, header := range matrixHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, entry := range e.result.Matrix {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), entry.FrameworkID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.FrameworkRequirementID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), entry.RequirementCode)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), entry.UnifiedRequirementID)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), entry.CategoryID)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), entry.SubsectionLetter)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), string(entry.MappingType))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), entry.Confidence)
	}

	for i := range matrixHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	summaryName := "Summary"
	if _, err := f.NewSheet(summaryName); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Organization", e.result.OrganizationID},
		{"Fingerprint", e.result.Fingerprint},
		{"Frameworks", fmt.Sprintf("%v", e.result.FrameworkIDs)},
		{"Total original requirements", e.result.Stats.TotalOriginal},
		{"Total unified requirements", e.result.Stats.TotalUnified},
		{"Reduction ratio", e.result.Stats.ReductionRatio},
	}
	for rowIdx, pair := range summary {
		f.SetCellValue(summaryName, fmt.Sprintf("A%d", rowIdx+1), pair[0])
		f.SetCellValue(summaryName, fmt.Sprintf("B%d", rowIdx+1), pair[1])
	}
	f.SetColWidth(summaryName, "A", "A", 30)
	f.SetColWidth(summaryName, "B", "B", 50)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	return f, nil
}

// ExportToExcel экспортирует матрицу трассируемости в Excel файл
func (e *Exporter) ExportToExcel(filename string) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// Export экспортирует результат в файл в заданном формате
func (e *Exporter) Export(filename string, format ExportFormat) error {
	switch format {
	case FormatJSON:
		return e.ExportToJSON(filename)
	case FormatCSV:
		return e.ExportToCSV(filename)
	case FormatExcel:
		return e.ExportToExcel(filename)
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}
