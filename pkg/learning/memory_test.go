package learning

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	entries []Entry
	nextID  uint

	incremented []uint
	updated     map[uint]string
	exportMin   float64
	suggestFor  string
}

func newFakeRepo(entries ...Entry) *fakeRepo {
	r := &fakeRepo{updated: map[uint]string{}, nextID: 1}
	for _, e := range entries {
		if e.ID == 0 {
			e.ID = r.nextID
		}
		if e.ID >= r.nextID {
			r.nextID = e.ID + 1
		}
		if e.NormalizedQuestion == "" {
			e.NormalizedQuestion = Normalize(e.Question)
		}
		r.entries = append(r.entries, e)
	}
	return r
}

func (r *fakeRepo) FindByNormalized(ctx context.Context, normalized string) (*Entry, error) {
	for i := range r.entries {
		if r.entries[i].NormalizedQuestion == normalized {
			entry := r.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindCandidates(ctx context.Context, tokens []string, limit int) ([]Entry, error) {
	var out []Entry
	for _, e := range r.entries {
		for _, token := range tokens {
			if strings.Contains(e.NormalizedQuestion, token) {
				out = append(out, e)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeRepo) Insert(ctx context.Context, entry *Entry) (uint, error) {
	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeRepo) UpdateResponse(ctx context.Context, id uint, response string, quality float64) error {
	r.updated[id] = response
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries[i].Response = response
			r.entries[i].QualityScore = quality
		}
	}
	return nil
}

func (r *fakeRepo) IncrementUseCount(ctx context.Context, id uint) error {
	r.incremented = append(r.incremented, id)
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries[i].UseCount++
		}
	}
	return nil
}

func (r *fakeRepo) Suggestions(ctx context.Context, normalized string, limit int) ([]string, error) {
	r.suggestFor = normalized
	return []string{"que es el ipc"}, nil
}

func (r *fakeRepo) Stats(ctx context.Context) (*Stats, error) {
	return &Stats{TotalEntries: len(r.entries)}, nil
}

func (r *fakeRepo) Export(ctx context.Context, minQuality float64) ([]Entry, error) {
	r.exportMin = minQuality
	return r.entries, nil
}

func TestMemoryDefaults(t *testing.T) {
	m := NewMemory(newFakeRepo(), Config{})
	assert.Equal(t, 0.80, m.readThreshold)
	assert.Equal(t, 0.90, m.writeThreshold)
	assert.Equal(t, 50, m.candidateLimit)
	assert.Equal(t, DefaultWeights(), m.weights)
}

func TestMemoryGetResponseExactMatch(t *testing.T) {
	repo := newFakeRepo(Entry{
		ID:       7,
		Question: "que es el ipc",
		Response: "El IPC mide la variación de precios al consumidor.",
	})
	m := NewMemory(repo, Config{})

	response, found := m.GetResponse(context.Background(), "¿Qué es el IPC?")
	require.True(t, found)
	assert.Equal(t, "El IPC mide la variación de precios al consumidor.", response)
	assert.Equal(t, []uint{7}, repo.incremented)
}

func TestMemoryGetResponseSimilarMatch(t *testing.T) {
	repo := newFakeRepo(Entry{
		Question: "cual es el valor del ipc",
		Response: "El último IPC fue 4.5%.",
	})
	m := NewMemory(repo, Config{})

	response, found := m.GetResponse(context.Background(), "valor del ipc")
	require.True(t, found)
	assert.Equal(t, "El último IPC fue 4.5%.", response)
}

func TestMemoryGetResponseMisses(t *testing.T) {
	repo := newFakeRepo(Entry{
		Question: "que es el ipc",
		Response: "respuesta",
	})
	m := NewMemory(repo, Config{})

	t.Run("unrelated question", func(t *testing.T) {
		_, found := m.GetResponse(context.Background(), "poblacion de goya")
		assert.False(t, found)
	})

	t.Run("different indicator", func(t *testing.T) {
		_, found := m.GetResponse(context.Background(), "que es el dolar blue")
		assert.False(t, found)
	})

	assert.Empty(t, repo.incremented)
}

func TestMemoryFindSimilarPicksBestCandidate(t *testing.T) {
	repo := newFakeRepo(
		Entry{Question: "que es el ipc", Response: "definicion"},
		Entry{Question: "cual es el valor del ipc", Response: "valor actual"},
	)
	m := NewMemory(repo, Config{})

	match, err := m.FindSimilar(context.Background(), "valor del ipc", 0.5)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "valor actual", match.Entry.Response)
}

func TestMemoryLearnInsertsNewEntry(t *testing.T) {
	repo := newFakeRepo()
	m := NewMemory(repo, Config{})

	id, err := m.Learn(context.Background(), "¿Qué es la canasta básica?", "La canasta básica mide...", "precios", true, 0.8)
	require.NoError(t, err)
	assert.NotZero(t, id)

	require.Len(t, repo.entries, 1)
	stored := repo.entries[0]
	assert.Equal(t, "que_canasta_basica", stored.QuestionKey)
	assert.Equal(t, "que es la canasta basica", stored.NormalizedQuestion)
	assert.Equal(t, "precios", stored.Category)
	assert.True(t, stored.IsConceptual)
	assert.Equal(t, 1, stored.UseCount)
}

func TestMemoryLearnUpgradesBetterAnswer(t *testing.T) {
	repo := newFakeRepo(Entry{
		ID:           3,
		Question:     "que es el ipc",
		Response:     "respuesta floja",
		QualityScore: 0.5,
	})
	m := NewMemory(repo, Config{})

	id, err := m.Learn(context.Background(), "que es el ipc", "respuesta mejor", "precios", true, 0.9)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
	assert.Equal(t, "respuesta mejor", repo.updated[3])
	assert.Len(t, repo.entries, 1)
}

func TestMemoryLearnKeepsBetterExistingAnswer(t *testing.T) {
	repo := newFakeRepo(Entry{
		ID:           3,
		Question:     "que es el ipc",
		Response:     "respuesta buena",
		QualityScore: 0.9,
	})
	m := NewMemory(repo, Config{})

	id, err := m.Learn(context.Background(), "que es el ipc", "respuesta floja", "precios", true, 0.5)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
	assert.Empty(t, repo.updated)
	assert.Equal(t, []uint{3}, repo.incremented)
	assert.Equal(t, "respuesta buena", repo.entries[0].Response)
}

func TestMemorySuggestions(t *testing.T) {
	repo := newFakeRepo()
	m := NewMemory(repo, Config{})

	got, err := m.Suggestions(context.Background(), " q ", 5)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, repo.suggestFor)

	got, err = m.Suggestions(context.Background(), "¿Qué es", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"que es el ipc"}, got)
	assert.Equal(t, "que es", repo.suggestFor)
}

func TestMemoryExportThreshold(t *testing.T) {
	repo := newFakeRepo()
	m := NewMemory(repo, Config{})

	_, err := m.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.7, repo.exportMin)
}
