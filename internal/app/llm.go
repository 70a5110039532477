package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// queryLLM отправляет промпт в LLM и возвращает ответ
func (a *App) queryLLM(ctx context.Context, prompt string) (string, error) {
	// Формируем запрос в OpenAI-compatible формате
	reqBody := map[string]interface{}{
		"model": a.cfg.OllamaModel,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  a.cfg.MaxTokens,
		"temperature": a.cfg.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Создаём HTTP запрос
	url := a.cfg.OllamaURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Отправляем запрос
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("LLM returned status %d: %s", resp.StatusCode, string(body))
	}

	// Парсим ответ
	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return response.Choices[0].Message.Content, nil
}

// buildAnswerPrompt формирует RAG промпт с контролем размера
func (a *App) buildAnswerPrompt(
	question string,
	referenceResults []SearchResult,
) string {
	var buf strings.Builder

	buf.WriteString("You are an assistant answering questions about a documentation set.\n")
	buf.WriteString("Answer using only the reference fragments below. If they are not enough, say so.\n\n")
	buf.WriteString("Question:\n<<<\n")
	buf.WriteString(question)
	buf.WriteString("\n>>>\n\n")

	// Проверяем размер до добавления reference chunks
	currentSize := buf.Len()
	availableForRefs := a.cfg.MaxPromptChars - currentSize - 300 // 300 для task description

	// Группируем reference chunks по секциям
	grouped := groupBySection(referenceResults)

	buf.WriteString("Reference fragments:\n")
	refCount := 0

	for section, chunks := range grouped {
		// Объединяем чанки из одной секции
		var combined strings.Builder
		for _, chunk := range chunks {
			combined.WriteString(chunk.Content)
			combined.WriteString("\n")
		}
		combinedText := combined.String()

		// Проверяем, влезет ли
		entrySize := len(section) + len(combinedText) + 100
		if currentSize+entrySize > availableForRefs {
			// Обрезаем текст
			maxTextLen := availableForRefs - currentSize - len(section) - 100
			if maxTextLen > 0 && maxTextLen < len(combinedText) {
				combinedText = combinedText[:maxTextLen] + "..."
			} else if maxTextLen <= 0 {
				break // Больше не влезает
			}
		}

		refCount++
		buf.WriteString(fmt.Sprintf("%d. [Section: %s] (similarity: %.2f)\n",
			refCount, section, chunks[0].Similarity))
		buf.WriteString("<<<\n")
		buf.WriteString(combinedText)
		buf.WriteString(">>>\n\n")

		currentSize += entrySize

		// Не добавляем слишком много секций
		if refCount >= 5 {
			break
		}
	}

	buf.WriteString("Answer concisely. Cite section names when relevant.\n")

	return buf.String()
}
