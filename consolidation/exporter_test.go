package consolidation

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
)

func exporterResult() *ConsolidationResult {
	return &ConsolidationResult{
		OrganizationID: "org-1",
		Fingerprint:    "abc123",
		FrameworkIDs:   []string{"iso-27001", "cis-controls"},
		Categories: []UnifiedRequirement{
			{ID: "u-1", CategoryID: "risk-management", SubsectionLetter: "a", ConsolidatedText: "a) Risk\n"},
		},
		Matrix: []MappingEntry{
			{FrameworkID: "iso-27001", FrameworkRequirementID: "r1", RequirementCode: "6.1.2",
				UnifiedRequirementID: "u-1", CategoryID: "risk-management", SubsectionLetter: "a",
				MappingType: MappingDirect, Confidence: 1.0},
			{FrameworkID: "cis-controls", FrameworkRequirementID: "r2", RequirementCode: "4.1",
				UnifiedRequirementID: "u-1", CategoryID: "risk-management", SubsectionLetter: "a",
				MappingType: MappingPartial, Confidence: 0.5},
		},
		Stats: Stats{TotalOriginal: 2, TotalUnified: 1, ReductionRatio: 0.5},
	}
}

func TestExporter_WriteMatrixCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter(exporterResult()).WriteMatrixCSV(&buf); err != nil {
		t.Fatalf("WriteMatrixCSV() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("csv parse error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("csv rows = %d, want header + 2 entries", len(records))
	}
	if records[0][0] != "Framework" || records[0][6] != "Mapping Type" {
		t.Errorf("unexpected headers: %v", records[0])
	}
	if records[1][6] != "DIRECT" || records[2][6] != "PARTIAL" {
		t.Errorf("mapping types not written: %v / %v", records[1], records[2])
	}
}

func TestExporter_WriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter(exporterResult()).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var decoded ConsolidationResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json parse error: %v", err)
	}
	if decoded.Fingerprint != "abc123" || len(decoded.Matrix) != 2 {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

func TestExporter_BuildExcel(t *testing.T) {
	f, err := NewExporter(exporterResult()).BuildExcel()
	if err != nil {
		t.Fatalf("BuildExcel() error: %v", err)
	}
	defer f.Close()

	value, err := f.GetCellValue("Traceability Matrix", "G2")
	if err != nil {
		t.Fatalf("GetCellValue() error: %v", err)
	}
	if value != "DIRECT" {
		t.Errorf("G2 = %q, want DIRECT", value)
	}

	sheets := f.GetSheetList()
	joined := strings.Join(sheets, ",")
	if !strings.Contains(joined, "Summary") {
		t.Errorf("summary sheet missing: %v", sheets)
	}
}

func TestExporter_UnknownFormat(t *testing.T) {
	if err := NewExporter(exporterResult()).Export("out.bin", ExportFormat("xml")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
