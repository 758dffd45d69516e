package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/brianvoe/gofakeit/v6"

	"complianceserver/database"
	"complianceserver/frameworks"
)

// Генератор синтетических фреймворков для нагрузочного тестирования
// консолидации. Тексты требований собираются из словаря доменных фраз,
// чтобы классификатор распределял их по всем категориям таксономии.

var topicPhrases = []string{
	"Senior management shall approve the information security policy",
	"The organization shall maintain an inventory of information assets",
	"Access to systems shall be granted based on the principle of least privilege",
	"The organization shall perform a risk assessment at planned intervals",
	"Security incidents shall be reported to the supervisory authority within 72 hours",
	"Backup copies of information shall be tested at least quarterly",
	"Supplier agreements shall include information security requirements",
	"Personnel shall receive security awareness training annually",
	"Audit logs shall be retained for at least 90 days",
	"Cryptographic keys shall be protected throughout their lifecycle",
	"Changes to production systems shall follow a documented change process",
	"Business continuity plans shall be exercised at least once per year",
}

func main() {
	dbPath := flag.String("db", "compliance_test.db", "путь к базе данных")
	frameworkCount := flag.Int("frameworks", 5, "число синтетических фреймворков")
	requirementCount := flag.Int("requirements", 200, "число требований на фреймворк")
	flag.Parse()

	gofakeit.Seed(0)

	db, err := database.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed taxonomy: %v", err)
	}

	tiers := []string{frameworks.TierIG1, frameworks.TierIG2, frameworks.TierIG3}
	sectors := []string{"healthcare", "finance", "energy", "telecom"}

	for f := 0; f < *frameworkCount; f++ {
		fw := frameworks.Framework{
			ID:      fmt.Sprintf("synthetic-%d", f+1),
			Name:    fmt.Sprintf("Synthetic %s Standard", gofakeit.BuzzWord()),
			Version: fmt.Sprintf("%d.%d", gofakeit.Number(1, 4), gofakeit.Number(0, 9)),
			Tiered:  f%2 == 0,
		}
		if err := db.InsertFramework(fw); err != nil {
			log.Fatalf("Failed to insert framework %s: %v", fw.ID, err)
		}

		for i := 0; i < *requirementCount; i++ {
			req := frameworks.FrameworkRequirement{
				FrameworkID:   fw.ID,
				FrameworkName: fw.Name + " " + fw.Version,
				Code:          fmt.Sprintf("%d.%d", i/10+1, i%10+1),
				Title:         gofakeit.RandomString(topicPhrases),
				Description: fmt.Sprintf("%s. The control shall be reviewed every %d days.",
					gofakeit.RandomString(topicPhrases), gofakeit.Number(30, 365)),
			}
			req.ID = fw.ID + ":" + req.Code

			if fw.Tiered {
				req.Tier = gofakeit.RandomString(tiers)
			}
			if gofakeit.Bool() && i%10 == 0 {
				req.Sectors = []string{gofakeit.RandomString(sectors)}
			}

			if err := db.InsertRequirement(req, i); err != nil {
				log.Fatalf("Failed to insert requirement %s: %v", req.ID, err)
			}
		}

		log.Printf("✓ Generated framework %s (%d requirements)", fw.ID, *requirementCount)
	}

	log.Printf("✓ Done: %d frameworks x %d requirements in %s", *frameworkCount, *requirementCount, *dbPath)
}
