package quality

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// WriteJSON пишет отчет валидации в JSON
func (r *ValidationReport) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode validation report: %w", err)
	}
	return nil
}

// WriteText пишет отчет валидации плоским текстом с секциями
// OVERALL SCORE / DETAIL PRESERVATION / ISSUES / RECOMMENDATIONS
func (r *ValidationReport) WriteText(w io.Writer) error {
	var builder strings.Builder

	builder.WriteString("=== OVERALL SCORE ===\n")
	builder.WriteString(fmt.Sprintf("Score: %.1f / 100\n", r.OverallScore))
	if r.Valid {
		builder.WriteString("Status: VALID\n")
	} else {
		builder.WriteString("Status: FLAGGED FOR REVIEW\n")
	}
	builder.WriteString(fmt.Sprintf("Structural integrity: %.1f\n", r.StructuralIntegrity.Score))
	builder.WriteString(fmt.Sprintf("Compliance integrity: %.1f\n", r.ComplianceIntegrity.Score))
	builder.WriteString(fmt.Sprintf("Text reduction: %.1f%%\n", r.QualityMetrics.TextReductionPercent))
	builder.WriteString(fmt.Sprintf("Readability: %.1f\n", r.QualityMetrics.ReadabilityScore))
	builder.WriteString("\n")

	builder.WriteString("=== DETAIL PRESERVATION ===\n")
	builder.WriteString(fmt.Sprintf("Overall: %.1f%%\n", r.DetailPreservation.OverallScore))
	for _, class := range DetailClasses {
		score := r.DetailPreservation.Classes[class]
		builder.WriteString(fmt.Sprintf("  %-22s %.1f%% (%d/%d)\n",
			string(class)+":", score.Score, score.Preserved, score.Total))
	}
	builder.WriteString("\n")

	builder.WriteString("=== ISSUES ===\n")
	if len(r.Issues) == 0 {
		builder.WriteString("No issues found.\n")
	}
	for _, issue := range r.Issues {
		builder.WriteString(fmt.Sprintf("[%s] %s: %s (affected: %d)\n",
			strings.ToUpper(string(issue.Severity)), issue.Category, issue.Message, issue.AffectedCount))
		if issue.SuggestedFix != "" {
			builder.WriteString(fmt.Sprintf("  fix: %s\n", issue.SuggestedFix))
		}
	}
	builder.WriteString("\n")

	builder.WriteString("=== RECOMMENDATIONS ===\n")
	if len(r.Recommendations) == 0 {
		builder.WriteString("No recommendations.\n")
	}
	for i, recommendation := range r.Recommendations {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
	}

	if _, err := io.WriteString(w, builder.String()); err != nil {
		return fmt.Errorf("failed to write validation report: %w", err)
	}
	return nil
}

// ExportToFile экспортирует отчет в файл; format — "json" или "text"
func (r *ValidationReport) ExportToFile(filename, format string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		return r.WriteJSON(file)
	case "text":
		return r.WriteText(file)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}
