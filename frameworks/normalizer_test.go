package frameworks

import (
	"testing"
)

func TestNormalizer_NormalizeRecord(t *testing.T) {
	n := NewNormalizer()
	framework := Framework{ID: "cis-controls", Name: "CIS Controls", Version: "8", Tiered: true}

	tests := []struct {
		name     string
		record   map[string]interface{}
		wantCode string
		wantTier string
		wantErr  bool
	}{
		{
			"каноничная запись",
			map[string]interface{}{
				"id":          "req-001",
				"control_id":  "1.1",
				"title":       "Establish and Maintain Detailed Enterprise Asset Inventory",
				"description": "Maintain an accurate inventory of all enterprise assets.",
				"ig":          "IG1",
			},
			"1.1", TierIG1, false,
		},
		{
			"альтернативные имена полей",
			map[string]interface{}{
				"code": "A.5.1",
				"name": "Policies for information security",
				"text": "Information security policy shall be defined and approved by management.",
			},
			"A.5.1", "", false,
		},
		{
			"уровень числом",
			map[string]interface{}{
				"control_id": "4.2",
				"title":      "Establish and Maintain a Secure Configuration Process",
				"tier":       "2",
			},
			"4.2", TierIG2, false,
		},
		{
			"пустая запись",
			map[string]interface{}{"irrelevant": "field"},
			"", "", true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := n.NormalizeRecord(framework, tt.record)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if req.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", req.Code, tt.wantCode)
			}
			if req.Tier != tt.wantTier {
				t.Errorf("Tier = %q, want %q", req.Tier, tt.wantTier)
			}
			if req.FrameworkID != framework.ID {
				t.Errorf("FrameworkID = %q, want %q", req.FrameworkID, framework.ID)
			}
			if req.ID == "" {
				t.Error("ID should never be empty after normalization")
			}
		})
	}
}

func TestNormalizer_CleanText(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"схлопывание пробелов", "risk   assessment \t process", "risk assessment process"},
		{"обрезка краев", "  within 72 hours  ", "within 72 hours"},
		{"пустая строка", "", ""},
		{"регистр сохраняется", "GDPR Article 33", "GDPR Article 33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.CleanText(tt.input); got != tt.expected {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestApplyFilter_TierNesting(t *testing.T) {
	requirements := []FrameworkRequirement{
		{ID: "r1", Code: "1.1", Tier: TierIG1},
		{ID: "r2", Code: "4.8", Tier: TierIG2},
		{ID: "r3", Code: "13.9", Tier: TierIG3},
		{ID: "r4", Code: "A.5.1"}, // без уровня, входит всегда
	}

	tests := []struct {
		name    string
		tier    string
		wantIDs []string
	}{
		{"без фильтра", "", []string{"r1", "r2", "r3", "r4"}},
		{"IG1 минимальный профиль", TierIG1, []string{"r1", "r4"}},
		{"IG2 включает IG1", TierIG2, []string{"r1", "r2", "r4"}},
		{"IG3 включает все", TierIG3, []string{"r1", "r2", "r3", "r4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := ApplyFilter(requirements, RequirementFilter{Tier: tt.tier})
			if len(filtered) != len(tt.wantIDs) {
				t.Fatalf("got %d requirements, want %d", len(filtered), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if filtered[i].ID != id {
					t.Errorf("filtered[%d].ID = %q, want %q", i, filtered[i].ID, id)
				}
			}
		})
	}
}

func TestApplyFilter_Sector(t *testing.T) {
	requirements := []FrameworkRequirement{
		{ID: "r1", Sectors: []string{"healthcare", "finance"}},
		{ID: "r2", Sectors: []string{"finance"}},
		{ID: "r3"}, // без отраслевых меток, входит всегда
	}

	filtered := ApplyFilter(requirements, RequirementFilter{Sector: "healthcare"})
	if len(filtered) != 2 {
		t.Fatalf("got %d requirements, want 2", len(filtered))
	}
	if filtered[0].ID != "r1" || filtered[1].ID != "r3" {
		t.Errorf("unexpected filter result: %v, %v", filtered[0].ID, filtered[1].ID)
	}
}

func TestFrameworkRequirement_Text(t *testing.T) {
	tests := []struct {
		name     string
		req      FrameworkRequirement
		expected string
	}{
		{"заголовок и описание", FrameworkRequirement{Title: "Risk assessment", Description: "Conduct assessments."}, "Risk assessment. Conduct assessments."},
		{"только заголовок", FrameworkRequirement{Title: "Risk assessment"}, "Risk assessment"},
		{"только сырой текст", FrameworkRequirement{RawText: "raw requirement body"}, "raw requirement body"},
		{"пусто", FrameworkRequirement{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Text(); got != tt.expected {
				t.Errorf("Text() = %q, want %q", got, tt.expected)
			}
		})
	}
}
