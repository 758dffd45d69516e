// @title Compliance Consolidation Server API
// @version 1.0
// @description API консолидации требований комплаенс-фреймворков. Классификация по канонической таксономии, объединение без потерь, матрица трассируемости, валидация качества.

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:9999
// @BasePath /api
// @schemes http https

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"complianceserver/database"
	"complianceserver/internal/config"
	"complianceserver/server"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════")
	log.Println("Запуск сервера консолидации требований...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	dbConfig := database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	db, err := database.NewDBWithConfig(cfg.DatabasePath, dbConfig)
	if err != nil {
		log.Fatalf("Ошибка открытия базы данных: %v", err)
	}
	defer db.Close()

	if cfg.SeedDefaults {
		if err := db.SeedDefaults(); err != nil {
			log.Fatalf("Ошибка загрузки стартовых данных: %v", err)
		}
	}

	srv := server.NewServer(cfg, db)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Fatalf("✗ КРИТИЧЕСКАЯ ОШИБКА: Паника при запуске сервера: %v", r)
			}
		}()
		if err := srv.Start(); err != nil {
			log.Fatalf("✗ КРИТИЧЕСКАЯ ОШИБКА: Ошибка запуска сервера: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("═══════════════════════════════════════════════════════")
	log.Printf("✓ Сервер запущен на порту %s", cfg.Port)
	log.Printf("✓ API доступно: http://localhost:%s/api", cfg.Port)
	log.Printf("✓ Swagger UI: http://localhost:%s/swagger/index.html", cfg.Port)
	log.Printf("✓ База данных: %s", cfg.DatabasePath)
	if cfg.Registry != nil {
		log.Printf("✓ Реестр фреймворков: %s", cfg.Registry.BaseURL)
	}
	log.Println("  Для остановки нажмите Ctrl+C")
	log.Println("═══════════════════════════════════════════════════════")

	<-sigChan
	log.Println("═══════════════════════════════════════════════════════")
	log.Println("⏹  Получен сигнал завершения, останавливаю сервер...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("✗ Ошибка при остановке сервера: %v", err)
	} else {
		log.Println("✓ Сервер успешно остановлен")
	}
}
