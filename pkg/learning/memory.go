package learning

import (
	"context"
	"log"
	"strings"
	"time"
)

// Entry is a learned question/answer pair.
type Entry struct {
	ID                 uint
	QuestionKey        string
	Question           string
	NormalizedQuestion string
	Response           string
	Category           string
	IsConceptual       bool
	QualityScore       float64
	UseCount           int
	CreatedAt          time.Time
	LastUsed           time.Time
}

// Stats summarizes the stored memory.
type Stats struct {
	TotalEntries        int            `json:"total_entries"`
	ConceptualQuestions int            `json:"conceptual_questions"`
	DataQuestions       int            `json:"data_questions"`
	Categories          map[string]int `json:"categories"`
	TotalUses           int            `json:"total_uses"`
	AverageUses         float64        `json:"average_uses"`
	TopQuestions        []TopQuestion  `json:"top_questions"`
}

type TopQuestion struct {
	Question string `json:"question"`
	Uses     int    `json:"uses"`
}

// Repository is the durable store behind the memory. Candidates are
// fetched by a substring scan on the normalized text, most used first.
type Repository interface {
	FindByNormalized(ctx context.Context, normalized string) (*Entry, error)
	FindCandidates(ctx context.Context, tokens []string, limit int) ([]Entry, error)
	Insert(ctx context.Context, entry *Entry) (uint, error)
	UpdateResponse(ctx context.Context, id uint, response string, quality float64) error
	IncrementUseCount(ctx context.Context, id uint) error
	Suggestions(ctx context.Context, normalized string, limit int) ([]string, error)
	Stats(ctx context.Context) (*Stats, error)
	Export(ctx context.Context, minQuality float64) ([]Entry, error)
}

// Match is a successful similarity lookup.
type Match struct {
	Entry      Entry
	Similarity float64
}

// Memory is the approximate-match cache of previously answered questions.
type Memory struct {
	repo           Repository
	weights        Weights
	readThreshold  float64
	writeThreshold float64
	candidateLimit int
}

type Config struct {
	Weights        Weights
	ReadThreshold  float64
	WriteThreshold float64
	CandidateLimit int
}

func NewMemory(repo Repository, cfg Config) *Memory {
	if cfg.ReadThreshold <= 0 {
		cfg.ReadThreshold = 0.80
	}
	if cfg.WriteThreshold <= 0 {
		cfg.WriteThreshold = 0.90
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 50
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	return &Memory{
		repo:           repo,
		weights:        cfg.Weights,
		readThreshold:  cfg.ReadThreshold,
		writeThreshold: cfg.WriteThreshold,
		candidateLimit: cfg.CandidateLimit,
	}
}

// FindSimilar locates the stored question closest to the input, at or
// above minSimilarity. An exact normalized match short-circuits at 1.0;
// otherwise candidates sharing any of the first three tokens are scored.
func (m *Memory) FindSimilar(ctx context.Context, question string, minSimilarity float64) (*Match, error) {
	if minSimilarity <= 0 {
		minSimilarity = m.readThreshold
	}

	normalized := Normalize(question)

	exact, err := m.repo.FindByNormalized(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if exact != nil {
		return &Match{Entry: *exact, Similarity: 1.0}, nil
	}

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return nil, nil
	}
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}

	candidates, err := m.repo.FindCandidates(ctx, tokens, m.candidateLimit)
	if err != nil {
		return nil, err
	}

	var best *Match
	for _, candidate := range candidates {
		similarity := Similarity(question, candidate.Question, m.weights)
		if similarity < minSimilarity {
			continue
		}
		if best == nil || similarity > best.Similarity {
			best = &Match{Entry: candidate, Similarity: similarity}
		}
	}

	if best != nil {
		log.Printf("[MEMORY] found similar question with %.0f%% similarity", best.Similarity*100)
	}
	return best, nil
}

// Learn stores a new question/answer pair. A near-duplicate (at the write
// threshold) is updated instead: the response is replaced only when the
// new quality score is strictly higher, otherwise just its use counter
// moves.
func (m *Memory) Learn(ctx context.Context, question, response, category string, isConceptual bool, qualityScore float64) (uint, error) {
	existing, err := m.FindSimilar(ctx, question, m.writeThreshold)
	if err != nil {
		return 0, err
	}

	if existing != nil {
		if qualityScore > existing.Entry.QualityScore {
			if err := m.repo.UpdateResponse(ctx, existing.Entry.ID, response, qualityScore); err != nil {
				return 0, err
			}
		} else if err := m.repo.IncrementUseCount(ctx, existing.Entry.ID); err != nil {
			return 0, err
		}
		log.Printf("[MEMORY] updated existing entry %d", existing.Entry.ID)
		return existing.Entry.ID, nil
	}

	entry := &Entry{
		QuestionKey:        GenerateKey(question),
		Question:           question,
		NormalizedQuestion: Normalize(question),
		Response:           response,
		Category:           category,
		IsConceptual:       isConceptual,
		QualityScore:       qualityScore,
		UseCount:           1,
	}
	id, err := m.repo.Insert(ctx, entry)
	if err != nil {
		return 0, err
	}
	log.Printf("[MEMORY] learned new entry %s (id=%d)", entry.QuestionKey, id)
	return id, nil
}

// GetResponse returns the stored answer for a sufficiently similar
// question and reinforces it by bumping the use counter.
func (m *Memory) GetResponse(ctx context.Context, question string) (string, bool) {
	match, err := m.FindSimilar(ctx, question, m.readThreshold)
	if err != nil {
		log.Printf("[MEMORY] lookup failed: %v", err)
		return "", false
	}
	if match == nil {
		return "", false
	}

	if err := m.repo.IncrementUseCount(ctx, match.Entry.ID); err != nil {
		log.Printf("[MEMORY] could not update use count: %v", err)
	}
	return match.Entry.Response, true
}

// Suggestions returns stored questions whose normalized text contains the
// partial input, for autocomplete surfaces.
func (m *Memory) Suggestions(ctx context.Context, partial string, limit int) ([]string, error) {
	if len(strings.TrimSpace(partial)) < 2 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	return m.repo.Suggestions(ctx, Normalize(partial), limit)
}

func (m *Memory) Stats(ctx context.Context) (*Stats, error) {
	return m.repo.Stats(ctx)
}

// Export returns the entries good enough for training datasets.
func (m *Memory) Export(ctx context.Context) ([]Entry, error) {
	return m.repo.Export(ctx, 0.7)
}
