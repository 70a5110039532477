package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"markdown_rag/internal/app"
	"markdown_rag/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// Парсим флаги командной строки
	docsDir := flag.String("docs", "", "Directory with reference documents (required)")
	dataDir := flag.String("data", "./data", "Data directory for vector DB")
	mode := flag.String("mode", "", "Chunking mode: legacy or ast (default from CHUNK_MODE)")
	reindex := flag.Bool("reindex", false, "Force reindexing of all documents")
	outputFile := flag.String("output", "", "Save answers to file (optional)")
	flag.Parse()

	if *docsDir == "" {
		log.Fatal("Error: --docs flag is required\nUsage: markdown_rag --docs=/path/to/docs")
	}

	// Проверяем существование директории
	if info, err := os.Stat(*docsDir); err != nil || !info.IsDir() {
		log.Fatalf("Error: docs directory not found: %s", *docsDir)
	}

	// Устанавливаем env переменные для парсинга
	os.Setenv("DOCS_DIR", *docsDir)
	os.Setenv("DATA_DIR", *dataDir)
	if *mode != "" {
		os.Setenv("CHUNK_MODE", *mode)
	}
	if *reindex {
		os.Setenv("FORCE_REINDEX", "true")
	}

	// Загружаем .env (опционально)
	_ = godotenv.Load()

	// Загружаем конфиг
	cfg := config.Config{}
	if err := config.Init(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Создаём директорию для данных
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}

	// Пути к файлам БД внутри data директории
	cfg.MetadataFile = filepath.Join(cfg.DataDir, "metadata.json")
	cfg.DBFile = filepath.Join(cfg.DataDir, "docs.db")

	log.Printf("Docs directory: %s", cfg.DocsDir)
	log.Printf("Data directory: %s", cfg.DataDir)
	log.Printf("Chunking mode: %s (size=%d, overlap=%d)", cfg.ChunkMode, cfg.ChunkSize, cfg.ChunkOverlap)

	// Создаём app
	a, err := app.New(&cfg)
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}

	// Устанавливаем путь для сохранения ответов (если указан)
	if *outputFile != "" {
		a.SetOutputPath(*outputFile)
	}

	// Инициализируем (проверка Ollama, загрузка БД, индексация)
	if err := a.Init(); err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	// Контекст с сигналами завершения
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	// Запускаем приложение
	if err := a.Run(ctx); err != nil {
		log.Fatalf("app stopped with error: %v", err)
	}
}
