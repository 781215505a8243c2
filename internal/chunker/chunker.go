package chunker

import "strings"

const (
	paragraphSep = "\n\n"
	sentenceSep  = " "
)

// Config controls chunking behavior.
type Config struct {
	MinTokens int // A chunk is only closed early once it holds at least this many tokens.
	MaxTokens int // Upper bound on a chunk's estimated tokens.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinTokens: 400,
		MaxTokens: 600,
	}
}

// Chunker packs paragraphs into bounded chunks, falling back to sentence
// granularity when a paragraph cannot be placed whole.
type Chunker struct {
	cfg Config
}

// New returns a Chunker. Non-positive bounds are replaced with defaults.
func New(cfg Config) *Chunker {
	def := DefaultConfig()
	if cfg.MinTokens <= 0 {
		cfg.MinTokens = def.MinTokens
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.MaxTokens < cfg.MinTokens {
		cfg.MaxTokens = cfg.MinTokens
	}
	return &Chunker{cfg: cfg}
}

// Config returns the effective configuration.
func (c *Chunker) Config() Config {
	return c.cfg
}

// Chunk splits normalized text into ordered chunk texts.
//
// Paragraphs are accumulated until the next one would push the buffer past
// MaxTokens. The buffer is closed only once it reaches MinTokens. A paragraph
// larger than MaxTokens is merged sentence by sentence onto the buffer. Any
// other paragraph stays whole: when the buffer is still under MinTokens it
// absorbs the paragraph even past MaxTokens, and the running total keeps
// counting both so the next paragraph closes the chunk. The last buffer is
// always emitted, even when it is under MinTokens.
func (c *Chunker) Chunk(text string) []string {
	var chunks []string
	var buf []string
	total := 0

	for _, para := range SplitParagraphs(text) {
		paraTokens := EstimateTokens(para)

		// Reaching MaxTokens exactly still fits.
		if total+paraTokens <= c.cfg.MaxTokens {
			buf = append(buf, para)
			total += paraTokens
			continue
		}

		if total >= c.cfg.MinTokens {
			chunks = append(chunks, strings.Join(buf, paragraphSep))
			buf = nil
			total = 0
		}

		if paraTokens > c.cfg.MaxTokens {
			done, open := c.chunkBySentences(para, strings.Join(buf, paragraphSep), total)
			chunks = append(chunks, done...)
			buf = buf[:0]
			total = 0
			if open != "" {
				buf = append(buf, open)
				total = EstimateTokens(open)
			}
			continue
		}

		buf = append(buf, para)
		total += paraTokens
	}

	if len(buf) > 0 {
		chunks = append(chunks, strings.Join(buf, paragraphSep))
	}

	return chunks
}

// chunkBySentences merges the sentences of para onto seed. It returns the
// chunks finalized along the way and the trailing working text, which the
// caller keeps accumulating into.
//
// A seed under MinTokens always absorbs the next sentence, even past
// MaxTokens: there is nothing smaller to split off.
func (c *Chunker) chunkBySentences(para, seed string, seedTokens int) (done []string, open string) {
	var current strings.Builder
	current.WriteString(seed)
	currentTokens := seedTokens

	for _, sent := range SplitSentences(para) {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > c.cfg.MaxTokens && currentTokens >= c.cfg.MinTokens {
			done = append(done, current.String())
			current.Reset()
			current.WriteString(sent)
			currentTokens = sentTokens
			continue
		}

		if current.Len() > 0 {
			current.WriteString(sentenceSep)
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	return done, current.String()
}
