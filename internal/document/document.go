package document

import "time"

// Version is the collection format version written to every artifact.
const Version = "1.0.0"

// Document is a discovered source file. DocNumber is its 1-based position in
// the sorted discovery list and never changes once assigned.
type Document struct {
	Path         string // Source path as recorded in chunks, slash-separated
	Title        string // From front matter or derived from the filename
	Slug         string
	DocNumber    int
	RawContent   string // Body after front matter removal
	CleanContent string // Plain text after extraction and whitespace normalization
}

// Chunk is a bounded span of document text with its identifying metadata.
type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	Text       string `json:"text"`
	SourcePath string `json:"source_path"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
}

// Metadata describes a collection run.
type Metadata struct {
	GeneratedAt    Timestamp `json:"generated_at"`
	TotalDocuments int       `json:"total_documents"`
	TotalChunks    int       `json:"total_chunks"`
	Version        string    `json:"version"`
}

// Collection is the full output of one pipeline run.
type Collection struct {
	Chunks   []Chunk  `json:"chunks"`
	Metadata Metadata `json:"metadata"`
}

// NewCollection builds a collection from chunks, stamping totals and version.
// A nil chunk slice is stored as empty so it encodes as [].
func NewCollection(chunks []Chunk, totalDocuments int, generatedAt time.Time) *Collection {
	if chunks == nil {
		chunks = []Chunk{}
	}
	return &Collection{
		Chunks: chunks,
		Metadata: Metadata{
			GeneratedAt:    Timestamp(generatedAt.UTC()),
			TotalDocuments: totalDocuments,
			TotalChunks:    len(chunks),
			Version:        Version,
		},
	}
}

// Chunks builds the chunk records for doc from its ordered chunk texts.
func (d *Document) Chunks(texts []string) []Chunk {
	chunks := make([]Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, Chunk{
			ChunkID:    ChunkID(d.DocNumber, i+1),
			Text:       text,
			SourcePath: d.Path,
			Slug:       d.Slug,
			Title:      d.Title,
			OrderIndex: i + 1,
		})
	}
	return chunks
}
