package chunker

import "log"

// Типы контента чанка
const (
	TypeText  = "text"
	TypeCode  = "code"
	TypeList  = "list"
	TypeTable = "table"
)

// Chunk представляет единицу текста для векторизации
type Chunk struct {
	ID         string   // "<файл>-chunk-<индекс>"
	Content    string   // Текст чанка (trimmed, с заголовком и overlap где нужно)
	SourceFile string   // Имя исходного файла
	ChunkIndex int      // Порядковый номер в документе, с нуля
	Metadata   Metadata // Структурные метаданные
}

// Metadata - структурные метаданные чанка
type Metadata struct {
	HeaderHierarchy []string // Заголовки от корня к ближайшему родителю, без пропусков
	Section         string   // Самый глубокий заголовок иерархии, "" если нет
	ChunkType       string   // text | code | list | table
	Language        string   // Язык fenced-блока, только для code
	ASTNodeTypes    []string // Типы AST узлов чанка, отсортированы (только ast режим)
}

// Chunker - интерфейс для всех типов chunker'ов
type Chunker interface {
	// Chunk разбивает контент одного документа на чанки
	Chunk(content, source string) ([]Chunk, error)

	// Name возвращает название chunker'а для логирования
	Name() string
}

// Значения по умолчанию
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
)

// Config содержит общие параметры для chunker'ов
type Config struct {
	MaxChunkSize int // Максимальный размер чанка в символах
	Overlap      int // Размер overlap между чанками
}

// Normalize приводит конфиг к рабочему виду. Невалидные значения
// не ошибка - подставляем безопасные и предупреждаем.
func (c Config) Normalize() Config {
	if c.MaxChunkSize <= 0 {
		log.Printf("⚠️  Invalid chunk size %d, using default %d", c.MaxChunkSize, DefaultChunkSize)
		c.MaxChunkSize = DefaultChunkSize
	}
	if c.Overlap < 0 {
		log.Printf("⚠️  Negative overlap %d, using default %d", c.Overlap, DefaultChunkOverlap)
		c.Overlap = DefaultChunkOverlap
	}
	if c.Overlap >= c.MaxChunkSize {
		fallback := DefaultChunkOverlap
		if half := c.MaxChunkSize / 2; half < fallback {
			fallback = half
		}
		log.Printf("⚠️  Overlap %d >= chunk size %d, falling back to %d", c.Overlap, c.MaxChunkSize, fallback)
		c.Overlap = fallback
	}
	return c
}
