package config

import (
	"github.com/caarlos0/env/v10"
)

type Config struct {
	DocsDir          string  `env:"DOCS_DIR" envDefault:"./docs"`
	DataDir          string  `env:"DATA_DIR" envDefault:"./data"`
	ChunkMode        string  `env:"CHUNK_MODE" envDefault:"legacy"`
	ChunkSize        int     `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap     int     `env:"CHUNK_OVERLAP" envDefault:"150"`
	OllamaURL        string  `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel      string  `env:"OLLAMA_MODEL" envDefault:"gemma2:2b"`
	OllamaEmbedModel string  `env:"OLLAMA_EMBED_MODEL" envDefault:"nomic-embed-text"`
	TopK             int     `env:"TOP_K" envDefault:"5"`
	MinSimilarity    float32 `env:"MIN_SIMILARITY" envDefault:"0.3"`
	MaxTokens        int     `env:"MAX_TOKENS" envDefault:"1024"`
	Temperature      float64 `env:"TEMPERATURE" envDefault:"0.2"`
	MaxPromptChars   int     `env:"MAX_PROMPT_CHARS" envDefault:"12000"`
	MaxConcurrency   int     `env:"MAX_CONCURRENCY" envDefault:"0"`
	ForceReindex     bool    `env:"FORCE_REINDEX" envDefault:"false"`
	MetadataFile     string
	DBFile           string
}

func Init(cfg interface{}) error {
	return env.Parse(cfg)
}
