package database

import (
	"context"
	"path/filepath"
	"testing"

	"complianceserver/frameworks"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults() error: %v", err)
	}
	if err := db.SeedDefaults(); err != nil {
		t.Fatalf("second SeedDefaults() error: %v", err)
	}

	fws, err := db.GetFrameworks(context.Background())
	if err != nil {
		t.Fatalf("GetFrameworks() error: %v", err)
	}
	if len(fws) != 3 {
		t.Errorf("got %d frameworks, want 3", len(fws))
	}
}

func TestGetRequirements_OrderAndMetadata(t *testing.T) {
	db := newTestDB(t)
	if err := db.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults() error: %v", err)
	}

	reqs, err := db.GetRequirements(context.Background(), "iso-27001")
	if err != nil {
		t.Fatalf("GetRequirements() error: %v", err)
	}
	if len(reqs) == 0 {
		t.Fatal("no requirements returned for seeded framework")
	}

	// Порядок должен соответствовать позициям загрузки
	if reqs[0].Code != "4.3" {
		t.Errorf("first requirement code = %q, want %q", reqs[0].Code, "4.3")
	}
	for _, req := range reqs {
		if req.FrameworkID != "iso-27001" {
			t.Errorf("requirement %s has framework_id %q", req.Code, req.FrameworkID)
		}
		if req.FrameworkName == "" {
			t.Errorf("requirement %s has empty framework name", req.Code)
		}
	}
}

func TestGetRequirements_UnknownFramework(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetRequirements(context.Background(), "no-such-framework")
	if err == nil {
		t.Fatal("expected error for unknown framework")
	}
}

func TestInsertRequirement_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	fw := frameworks.Framework{ID: "gdpr", Name: "GDPR", Version: "2016/679"}
	if err := db.InsertFramework(fw); err != nil {
		t.Fatalf("InsertFramework() error: %v", err)
	}

	req := frameworks.FrameworkRequirement{
		ID:            "gdpr:33",
		FrameworkID:   "gdpr",
		Code:          "Art. 33",
		Title:         "Notification of a personal data breach to the supervisory authority",
		Description:   "The controller shall without undue delay and, where feasible, not later than 72 hours after having become aware of it, notify the personal data breach to the supervisory authority.",
		Sectors:       []string{"healthcare", "finance"},
		NotApplicable: true,
		Justification: "no personal data processed",
	}
	if err := db.InsertRequirement(req, 0); err != nil {
		t.Fatalf("InsertRequirement() error: %v", err)
	}

	got, err := db.GetRequirements(context.Background(), "gdpr")
	if err != nil {
		t.Fatalf("GetRequirements() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d requirements, want 1", len(got))
	}
	if got[0].Description != req.Description {
		t.Errorf("description changed on round trip")
	}
	if !got[0].NotApplicable || got[0].Justification != req.Justification {
		t.Errorf("not-applicable metadata lost: %+v", got[0])
	}
	if len(got[0].Sectors) != 2 {
		t.Errorf("sectors lost: %v", got[0].Sectors)
	}
}

func TestTaxonomyRoundTrip(t *testing.T) {
	db := newTestDB(t)
	if err := db.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults() error: %v", err)
	}

	categories, err := db.GetCategories(context.Background())
	if err != nil {
		t.Fatalf("GetCategories() error: %v", err)
	}
	if len(categories) != 4 {
		t.Fatalf("got %d categories, want 4", len(categories))
	}
	for _, category := range categories {
		if len(category.Subsections) == 0 {
			t.Errorf("category %s has no subsections after round trip", category.ID)
		}
		for _, sub := range category.Subsections {
			if sub.Topic == "" {
				t.Errorf("subsection %s/%s lost topic", category.ID, sub.Letter)
			}
		}
	}
}

func TestRecordRun_And_GetRecentRuns(t *testing.T) {
	db := newTestDB(t)

	record := RunRecord{
		Fingerprint:    "abc123",
		OrganizationID: "org-1",
		FrameworkIDs:   []string{"iso-27001", "cis-controls"},
		Tier:           "ig2",
		TotalOriginal:  19,
		TotalUnified:   12,
		ReductionRatio: 0.31,
		OverallScore:   96.5,
		Valid:          true,
		DurationMs:     42,
	}
	if err := db.RecordRun(record); err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}

	runs, err := db.GetRecentRuns("org-1", 10)
	if err != nil {
		t.Fatalf("GetRecentRuns() error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Fingerprint != "abc123" || !runs[0].Valid || len(runs[0].FrameworkIDs) != 2 {
		t.Errorf("run record mismatch: %+v", runs[0])
	}
}
