package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"complianceserver/consolidation"
	"complianceserver/consolidation/pipeline"
	"complianceserver/database"
	"complianceserver/frameworks"
	"complianceserver/internal/config"
)

// Офлайн запуск консолидации: выполняет полный конвейер над локальной
// базой и складывает матрицу трассируемости и отчет валидации в файлы.
func main() {
	org := flag.String("org", "offline", "идентификатор организации")
	frameworkIDs := flag.String("frameworks", "", "идентификаторы фреймворков через запятую (пусто — все из базы)")
	tier := flag.String("tier", "", "уровень внедрения: ig1, ig2, ig3")
	sector := flag.String("sector", "", "отраслевой фильтр")
	format := flag.String("format", "excel", "формат матрицы: json, csv, excel")
	flag.Parse()

	fmt.Println("=== Экспорт матрицы трассируемости ===")
	fmt.Println("")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("❌ Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		fmt.Printf("❌ Ошибка открытия базы данных: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.SeedDefaults {
		if err := db.SeedDefaults(); err != nil {
			fmt.Printf("❌ Ошибка загрузки стартовых данных: %v\n", err)
			os.Exit(1)
		}
	}

	ids := splitIDs(*frameworkIDs)
	if len(ids) == 0 {
		known, err := db.GetFrameworks(context.Background())
		if err != nil {
			fmt.Printf("❌ Ошибка чтения списка фреймворков: %v\n", err)
			os.Exit(1)
		}
		for _, fw := range known {
			ids = append(ids, fw.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Println("❌ В базе нет фреймворков для консолидации")
		os.Exit(1)
	}

	orchestrator := pipeline.NewOrchestrator(db, db, nil, cfg.BucketCap)
	output, err := orchestrator.Run(context.Background(), pipeline.Request{
		OrganizationID: *org,
		FrameworkIDs:   ids,
		Filter: frameworks.RequirementFilter{
			Tier:   *tier,
			Sector: *sector,
		},
	})
	if err != nil {
		fmt.Printf("❌ Ошибка консолидации: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		fmt.Printf("❌ Ошибка создания папки экспорта: %v\n", err)
		os.Exit(1)
	}

	matrixPath := filepath.Join(cfg.ExportDir, "traceability_matrix."+matrixExtension(*format))
	exporter := consolidation.NewExporter(output.Result)
	if err := exporter.Export(matrixPath, consolidation.ExportFormat(*format)); err != nil {
		fmt.Printf("❌ Ошибка экспорта матрицы: %v\n", err)
		os.Exit(1)
	}

	reportPath := filepath.Join(cfg.ExportDir, "validation_report.txt")
	if err := output.Report.ExportToFile(reportPath, "text"); err != nil {
		fmt.Printf("❌ Ошибка экспорта отчета: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Консолидация завершена")
	fmt.Println("")
	fmt.Println("Итоги запуска:")
	fmt.Printf("  Фреймворки: %s\n", strings.Join(ids, ", "))
	fmt.Printf("  Исходных требований: %d\n", output.Result.Stats.TotalOriginal)
	fmt.Printf("  Объединенных требований: %d\n", output.Result.Stats.TotalUnified)
	fmt.Printf("  Сокращение: %.1f%%\n", output.Result.Stats.ReductionRatio*100)
	fmt.Printf("  Оценка качества: %.1f\n", output.Report.OverallScore)
	fmt.Printf("  Валиден: %v\n", output.Report.Valid)
	if len(output.Result.PartialFrameworks) > 0 {
		fmt.Printf("  ⚠ Частично обработаны: %s\n", strings.Join(output.Result.PartialFrameworks, ", "))
	}
	fmt.Println("")
	fmt.Printf("  Матрица: %s\n", matrixPath)
	fmt.Printf("  Отчет: %s\n", reportPath)
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

func matrixExtension(format string) string {
	if format == "excel" {
		return "xlsx"
	}
	return format
}
