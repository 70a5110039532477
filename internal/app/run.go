package app

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) Run(ctx context.Context) error {
	log.Println("Application started")
	log.Println("Ask a question about the indexed documents (one per line). Ctrl+C to exit.")

	scanner := bufio.NewScanner(os.Stdin)

	// Увеличим буфер, если строки будут длинные
	const maxLineSize = 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down application")
			return nil
		default:
			// читаем строку
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("stdin error: %w", err)
				}
				// EOF
				log.Println("stdin closed")
				return nil
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			a.handleQuestion(ctx, line)
		}
	}
}

func (a *App) handleQuestion(ctx context.Context, question string) {
	results, err := a.searchRelevantChunks(ctx, question)
	if err != nil {
		log.Printf("❌ Search error: %v", err)
		return
	}

	log.Printf("🔍 Found %d relevant fragments:", len(results))
	for i, r := range results {
		section := r.Section
		if section == "" {
			section = r.Source
		}
		log.Printf("   %d. %s [%s] (similarity: %.2f)", i+1, section, r.ChunkType, r.Similarity)
	}

	if len(results) == 0 {
		log.Printf("Nothing relevant indexed, try another question")
		return
	}

	log.Printf("\n🤖 Answering with LLM...")
	prompt := a.buildAnswerPrompt(question, results)

	answer, err := a.queryLLM(ctx, prompt)
	if err != nil {
		log.Printf("❌ LLM error: %v", err)
		return
	}

	log.Printf("\n%s\n", answer)

	// Сохраняем ответ, если задан output файл
	if a.outputPath != "" {
		entry := fmt.Sprintf("## Q: %s\n\n%s\n\n---\n\n", question, answer)
		f, err := os.OpenFile(a.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("⚠️  Failed to open output file: %v", err)
			return
		}
		defer f.Close()
		if _, err := f.WriteString(entry); err != nil {
			log.Printf("⚠️  Failed to save answer: %v", err)
		} else {
			log.Printf("💾 Answer appended to: %s", a.outputPath)
		}
	}
}
