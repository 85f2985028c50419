package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ipecd-chatbot-be/internal/config"
	"ipecd-chatbot-be/internal/constant"
	"ipecd-chatbot-be/internal/dto"
	"ipecd-chatbot-be/internal/entity"
	memoryrepo "ipecd-chatbot-be/internal/repository/memory"
	"ipecd-chatbot-be/pkg/intent"
	"ipecd-chatbot-be/pkg/learning"
	"ipecd-chatbot-be/pkg/llm"
	"ipecd-chatbot-be/pkg/llm/failover"
	"ipecd-chatbot-be/pkg/menu"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider answers from a fixed queue; the last response repeats
// once the queue runs out.
type stubProvider struct {
	responses []string
	err       error
	calls     int
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	if len(p.responses) == 0 {
		return "respuesta generada", nil
	}
	idx := p.calls - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (p *stubProvider) Name() string { return "stub" }

// fakeLearningRepo is an in-memory learning.Repository.
type fakeLearningRepo struct {
	entries []learning.Entry
	nextID  uint
}

func (r *fakeLearningRepo) FindByNormalized(ctx context.Context, normalized string) (*learning.Entry, error) {
	for i := range r.entries {
		if r.entries[i].NormalizedQuestion == normalized {
			entry := r.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (r *fakeLearningRepo) FindCandidates(ctx context.Context, tokens []string, limit int) ([]learning.Entry, error) {
	if len(r.entries) > limit {
		return r.entries[:limit], nil
	}
	return r.entries, nil
}

func (r *fakeLearningRepo) Insert(ctx context.Context, entry *learning.Entry) (uint, error) {
	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeLearningRepo) UpdateResponse(ctx context.Context, id uint, response string, quality float64) error {
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries[i].Response = response
			r.entries[i].QualityScore = quality
		}
	}
	return nil
}

func (r *fakeLearningRepo) IncrementUseCount(ctx context.Context, id uint) error {
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries[i].UseCount++
		}
	}
	return nil
}

func (r *fakeLearningRepo) Suggestions(ctx context.Context, normalized string, limit int) ([]string, error) {
	var out []string
	for _, entry := range r.entries {
		if strings.Contains(entry.NormalizedQuestion, normalized) {
			out = append(out, entry.Question)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeLearningRepo) Stats(ctx context.Context) (*learning.Stats, error) {
	return &learning.Stats{TotalEntries: len(r.entries)}, nil
}

func (r *fakeLearningRepo) Export(ctx context.Context, minQuality float64) ([]learning.Entry, error) {
	var out []learning.Entry
	for _, entry := range r.entries {
		if entry.QualityScore >= minQuality {
			out = append(out, entry)
		}
	}
	return out, nil
}

type chatEnv struct {
	svc       IChatService
	impl      *chatService
	stats     *fakeStats
	sessions  *memoryrepo.SessionRepository
	tree      *menu.Tree
	provider  *stubProvider
	learnRepo *fakeLearningRepo
}

func newChatEnv(t *testing.T, stats *fakeStats, pubSub *gochannel.GoChannel) *chatEnv {
	t.Helper()

	tree := menu.NewTree(menu.NewFileStore(filepath.Join(t.TempDir(), "menu.json")))
	tree.Load()

	provider := &stubProvider{}
	chain := failover.NewChain(provider, nil)

	toolSvc, err := NewToolService(stats, nopLogger{})
	require.NoError(t, err)

	learnRepo := &fakeLearningRepo{}
	sessions := memoryrepo.NewSessionRepository(0, 0)

	svc := NewChatService(
		config.ChatbotConfig{MaxRelatedOptions: 5},
		tree,
		menu.NewEnhancer(tree, menu.NewGenerator(stats)),
		intent.NewDetector(tree),
		intent.NewClassifier(nil),
		chain,
		toolSvc,
		learning.NewMemory(learnRepo, learning.Config{}),
		sessions,
		stats,
		NewEnrichService(nil, nopLogger{}),
		pubSub,
		nopLogger{},
	)

	return &chatEnv{
		svc:       svc,
		impl:      svc.(*chatService),
		stats:     stats,
		sessions:  sessions,
		tree:      tree,
		provider:  provider,
		learnRepo: learnRepo,
	}
}

func TestChatEmptyMessageShowsRootMenu(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)

	res, err := env.svc.Chat(context.Background(), &dto.ChatRequest{SessionID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, env.tree.FormatMenu(env.tree.RootID()), res.Response)
	assert.Equal(t, entity.ChatSourceMenu, res.Source)
	assert.Equal(t, "s1", res.SessionID)

	session, found := env.sessions.Get("s1")
	require.True(t, found)
	// The empty turn records only the assistant side.
	require.Len(t, session.Messages, 1)
	assert.Equal(t, constant.ChatMessageRoleAssistant, session.Messages[0].Role)
}

func TestChatDefaultsSessionID(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)

	res, err := env.svc.Chat(context.Background(), &dto.ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "default", res.SessionID)
}

func TestChatDigitNavigatesMenu(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)

	res, err := env.svc.Chat(context.Background(), &dto.ChatRequest{SessionID: "s1", Message: "1"})
	require.NoError(t, err)

	assert.Equal(t, env.tree.FormatMenu("economico"), res.Response)
	assert.Equal(t, entity.ChatSourceMenu, res.Source)

	session, found := env.sessions.Get("s1")
	require.True(t, found)
	assert.Equal(t, "economico", session.CurrentNodeID)
	assert.Equal(t, []string{"economico"}, session.History)
}

func TestChatInvalidMenuNumber(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)

	res, err := env.svc.Chat(context.Background(), &dto.ChatRequest{SessionID: "s1", Message: "9"})
	require.NoError(t, err)

	assert.Equal(t, "Opción 9 no válida. Por favor, elige una opción del menú.", res.Response)
	assert.Equal(t, entity.ChatSourceCanned, res.Source)
}

func TestChatDigitRunsToolNode(t *testing.T) {
	stats := &fakeStats{
		available: true,
		dolar: []entity.StatRecord{
			statRec(map[string]any{"fecha": "2024-03-05", "valor": 1250.0}),
		},
	}
	env := newChatEnv(t, stats, nil)
	require.NoError(t, env.tree.Apply([]*menu.Node{{
		ID:       "dolar_hoy",
		Title:    "💵 Dólar Hoy",
		Action:   menu.ActionTool,
		Tool:     "get_dolar",
		ToolArgs: map[string]string{"tipo": "oficial"},
	}}, map[string][]string{"economico": {"dolar_hoy"}}))
	ctx := context.Background()

	_, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "1"})
	require.NoError(t, err)

	res, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "3"})
	require.NoError(t, err)

	assert.Equal(t, entity.ChatSourceTool, res.Source)
	assert.Equal(t, "get_dolar", res.Tool)
	assert.Contains(t, res.Response, "Cotización Dólar OFICIAL")
	assert.Equal(t, "oficial", stats.lastDolarTipo)

	// Running a tool does not move the user off the menu.
	session, found := env.sessions.Get("s1")
	require.True(t, found)
	assert.Equal(t, "economico", session.CurrentNodeID)
}

func TestChatBackReturnsToPreviousMenu(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)
	ctx := context.Background()

	_, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "finanzas"})
	require.NoError(t, err)
	_, err = env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "datos sociales"})
	require.NoError(t, err)

	session, found := env.sessions.Get("s1")
	require.True(t, found)
	require.Equal(t, []string{"economico", "socio"}, session.History)

	res, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "que significa ir atrás"})
	require.NoError(t, err)

	assert.Equal(t, env.tree.FormatMenu("economico"), res.Response)
	session, found = env.sessions.Get("s1")
	require.True(t, found)
	assert.Equal(t, "economico", session.CurrentNodeID)
	assert.Equal(t, []string{"economico"}, session.History)

	// At the start of the trail another step back lands on the root.
	res, err = env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "que significa ir atrás"})
	require.NoError(t, err)

	assert.Equal(t, env.tree.FormatMenu(env.tree.RootID()), res.Response)
	session, found = env.sessions.Get("s1")
	require.True(t, found)
	assert.Equal(t, env.tree.RootID(), session.CurrentNodeID)
	assert.Empty(t, session.History)
}

func TestChatMenuAndResetEndpoints(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)
	ctx := context.Background()

	t.Run("fresh session sees the root menu", func(t *testing.T) {
		res := env.svc.Menu(ctx, "nueva")
		assert.Equal(t, "nueva", res.SessionID)
		assert.Equal(t, env.tree.RootID(), res.CurrentNode)
		assert.Equal(t, env.tree.FormatMenu(env.tree.RootID()), res.Menu)

		// Reading the menu never creates a session.
		_, found := env.sessions.Get("nueva")
		assert.False(t, found)
	})

	t.Run("menu follows navigation", func(t *testing.T) {
		_, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "1"})
		require.NoError(t, err)

		res := env.svc.Menu(ctx, "s1")
		assert.Equal(t, "economico", res.CurrentNode)
		assert.Equal(t, env.tree.FormatMenu("economico"), res.Menu)
	})

	t.Run("reset returns to the root menu", func(t *testing.T) {
		res := env.svc.Reset(ctx, "s1")
		assert.Equal(t, env.tree.RootID(), res.CurrentNode)
		assert.Equal(t, env.tree.FormatMenu(env.tree.RootID()), res.Menu)

		session, found := env.sessions.Get("s1")
		require.True(t, found)
		assert.Equal(t, env.tree.RootID(), session.CurrentNodeID)
		assert.Empty(t, session.History)
		assert.Empty(t, session.Messages)
	})

	t.Run("empty session id uses the default session", func(t *testing.T) {
		assert.Equal(t, "default", env.svc.Menu(ctx, "").SessionID)
		assert.Equal(t, "default", env.svc.Reset(ctx, "").SessionID)
	})
}

func TestChatMenuKeywordResetsSession(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)
	ctx := context.Background()

	_, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "1"})
	require.NoError(t, err)

	res, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "menu"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Response, constant.WelcomeBackPrefix))
	assert.Contains(t, res.Response, env.tree.FormatMenu(env.tree.RootID()))

	session, found := env.sessions.Get("s1")
	require.True(t, found)
	assert.Equal(t, env.tree.RootID(), session.CurrentNodeID)
	assert.Empty(t, session.History)
}

func TestChatCannedResponses(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"plain greeting", "hola", constant.GreetingSimpleResponse},
		{"capability greeting", "hola que podes hacer", constant.GreetingCapabilityResponse},
		{"farewell", "muchas gracias", constant.FarewellResponse},
		{"help", "que opciones tengo", constant.HelpResponse},
		{"off topic", "receta de milanesas", constant.OutOfDomainResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newChatEnv(t, &fakeStats{}, nil)
			res, err := env.svc.Chat(context.Background(), &dto.ChatRequest{SessionID: "s1", Message: tt.message})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Response)
			assert.Equal(t, entity.ChatSourceCanned, res.Source)
		})
	}
}

func TestChatServesLearnedResponse(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)
	question := "cual es la inflacion de corrientes"
	env.learnRepo.entries = append(env.learnRepo.entries, learning.Entry{
		ID:                 1,
		Question:           question,
		NormalizedQuestion: learning.Normalize(question),
		Response:           "La inflación de Corrientes fue del 4,2% mensual según el IPICorr.",
		UseCount:           1,
	})
	env.learnRepo.nextID = 1

	res, err := env.svc.Chat(context.Background(), &dto.ChatRequest{SessionID: "s1", Message: question})
	require.NoError(t, err)

	assert.Equal(t, "La inflación de Corrientes fue del 4,2% mensual según el IPICorr.", res.Response)
	assert.Equal(t, entity.ChatSourceMemory, res.Source)
	assert.Equal(t, 2, env.learnRepo.entries[0].UseCount)
	// Serving from memory never calls the model.
	assert.Zero(t, env.provider.calls)
}

func TestChatRoutesDataQueryToTool(t *testing.T) {
	stats := &fakeStats{
		available: true,
		dolar: []entity.StatRecord{
			statRec(map[string]any{"fecha": "2024-03-05", "valor": 1250.0}),
		},
	}
	env := newChatEnv(t, stats, nil)

	res, err := env.svc.Chat(context.Background(), &dto.ChatRequest{SessionID: "s1", Message: "dame el dolar blue"})
	require.NoError(t, err)

	assert.Equal(t, entity.ChatSourceTool, res.Source)
	assert.Equal(t, "get_dolar", res.Tool)
	assert.Contains(t, res.Response, "Cotización Dólar BLUE")
	assert.Equal(t, "blue", stats.lastDolarTipo)
}

func TestChatQueryLeafSearchesWarehouse(t *testing.T) {
	stats := &fakeStats{
		available: true,
		searchHits: []entity.StatRecord{
			statRec(map[string]any{"fecha": "2024-03-05", "valor": 4.5}, "fecha", "valor"),
		},
	}
	env := newChatEnv(t, stats, nil)
	ctx := context.Background()

	_, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "1"})
	require.NoError(t, err)

	res, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "1"})
	require.NoError(t, err)

	assert.Equal(t, "datalake_economico", stats.lastSearchQuery)
	assert.Equal(t, entity.ChatSourceLLM, res.Source)
	assert.Equal(t, "respuesta generada", res.Response)
}

func TestChatStructureLeafDescribesWarehouse(t *testing.T) {
	stats := &fakeStats{
		available: true,
		structure: map[string][]menu.TableInfo{
			"datalake_economico": {{Name: "ipc", Columns: []string{"fecha", "valor"}}},
		},
	}
	env := newChatEnv(t, stats, nil)
	ctx := context.Background()

	_, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "3"})
	require.NoError(t, err)

	res, err := env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "s1", Message: "2"})
	require.NoError(t, err)

	assert.Equal(t, entity.ChatSourceTool, res.Source)
	assert.Contains(t, res.Response, "Base de datos: datalake_economico")
	assert.Contains(t, res.Response, "Tablas disponibles: 1")
	assert.Contains(t, res.Response, "- ipc (2 columnas)")
}

func TestChatAllProvidersFailed(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)
	env.provider.err = errors.New("connection refused")

	res, err := env.svc.Chat(context.Background(), &dto.ChatRequest{SessionID: "s1", Message: "dame el dolar blue"})
	require.NoError(t, err)

	assert.Equal(t, constant.FinalErrorResponse, res.Response)
	assert.Equal(t, entity.ChatSourceCanned, res.Source)
}

func TestChatResolvesModelToolCall(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)
	env.provider.responses = []string{
		`{"tool": "get_dolar", "arguments": {"tipo": "oficial"}}`,
		"Por el momento no tengo la cotización oficial cargada.",
	}

	res, err := env.svc.Chat(context.Background(), &dto.ChatRequest{SessionID: "s1", Message: "dame el dolar blue"})
	require.NoError(t, err)

	assert.Equal(t, entity.ChatSourceTool, res.Source)
	assert.Equal(t, "get_dolar", res.Tool)
	assert.Equal(t, "Por el momento no tengo la cotización oficial cargada.", res.Response)
	assert.Equal(t, "oficial", env.stats.lastDolarTipo)
}

func TestChatPublishesTurn(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	env := newChatEnv(t, &fakeStats{}, pubSub)

	ctx := context.Background()
	messages, err := pubSub.Subscribe(ctx, ChatTurnTopic)
	require.NoError(t, err)

	_, err = env.svc.Chat(ctx, &dto.ChatRequest{SessionID: "pub", Message: "hola"})
	require.NoError(t, err)

	select {
	case msg := <-messages:
		var turn dto.ChatTurnMessage
		require.NoError(t, json.Unmarshal(msg.Payload, &turn))
		msg.Ack()

		assert.Equal(t, "pub", turn.SessionID)
		assert.Equal(t, "hola", turn.UserInput)
		assert.Equal(t, constant.GreetingSimpleResponse, turn.Response)
		assert.Equal(t, intent.IntentGreeting, turn.Intent)
		assert.Equal(t, entity.ChatSourceCanned, turn.Source)
		assert.False(t, turn.Learnable)
	case <-time.After(2 * time.Second):
		t.Fatal("no turn published")
	}
}

func TestLearnableFilters(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)
	goodResponse := "La inflación de marzo fue del 4,2% mensual y del 87,5% interanual. " +
		strings.Repeat("El dato corresponde al relevamiento provincial. ", 3)

	tests := []struct {
		name     string
		question string
		response string
		want     bool
	}{
		{"domain question with good answer", "cual es la inflacion", goodResponse, true},
		{"question outside the domain", "hola amigo", goodResponse, false},
		{"short answer", "cual es la inflacion", "4,2% mensual.", false},
		{"menu answer", "cual es la inflacion", "1. " + goodResponse, false},
		{"related options answer", "cual es la inflacion", "Opciones:\n   └─ " + goodResponse, false},
		{"error answer", "cual es la inflacion", "Error al consultar la base. " + goodResponse, false},
		{"apology answer", "cual es la inflacion", "Lo siento, no tengo datos. " + goodResponse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, env.impl.learnable(tt.question, tt.response))
		})
	}
}

func TestProcessSpecialQuery(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)

	tests := []struct {
		name  string
		lower string
		input string
		want  string
	}{
		{"datalake economico", "datalake_economico_ultimo_valor", "datalake_economico_ultimo_valor", "último valor datalake_economico"},
		{"dwh socio", "dwh_socio_ultimo_valor", "dwh_socio_ultimo_valor", "último valor dwh_socio"},
		{"datalake socio maps to dwh", "datalake_socio_ultimo_valor", "datalake_socio_ultimo_valor", "último valor dwh_socio"},
		{"bare economico", "economico ultimo valor", "economico ultimo valor", "último valor datalake_economico"},
		{"custom query keeps user text", "socio consulta personalizada", "Dame población por municipio", "Dame población por municipio"},
		{"no database mention", "ipc ultimo valor", "ipc ultimo valor", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, env.impl.processSpecialQuery(tt.lower, tt.input))
		})
	}
}

func TestBuildDBQuery(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)

	t.Run("open detection keeps input", func(t *testing.T) {
		got := env.impl.buildDBQuery(intent.OpenDetection{Query: "poblacion de goya"}, "poblacion de goya")
		assert.Equal(t, "poblacion de goya", got)
	})

	t.Run("query detection strips aggregate words", func(t *testing.T) {
		got := env.impl.buildDBQuery(intent.QueryDetection{QueryType: "ultimo"}, "ultimo valor dolar")
		assert.Equal(t, "dolar", got)
	})

	t.Run("special markers resolve the database", func(t *testing.T) {
		got := env.impl.buildDBQuery(intent.OpenDetection{}, "Datalake_Economico_Ultimo_Valor")
		assert.Equal(t, "último valor datalake_economico", got)
	})
}

func TestNormalizeForMatch(t *testing.T) {
	assert.Equal(t, "datos económicos", normalizeForMatch("¿Datos Económicos?"))
	assert.Equal(t, "ipc corrientes", normalizeForMatch("¡IPC Corrientes!"))
}

func TestScoreMenuNode(t *testing.T) {
	node := &menu.Node{
		Title:    "Datos Económicos",
		Keywords: []string{"economia", "finanzas"},
	}

	score := func(input string) int {
		normalized := normalizeForMatch(input)
		return scoreMenuNode(node, normalized, wordsOf(normalized))
	}

	assert.Equal(t, 100, score("datos económicos"))
	// Containment in either direction.
	assert.Equal(t, 50, score("datos"))
	// One shared word.
	assert.Equal(t, 10, score("otros datos"))
	// Keyword contained in the input.
	assert.Equal(t, 20, score("finanzas provinciales"))
}

func TestSearchWarehouse(t *testing.T) {
	t.Run("skips general chatter", func(t *testing.T) {
		env := newChatEnv(t, &fakeStats{searchHits: []entity.StatRecord{
			statRec(map[string]any{"valor": 1}, "valor"),
		}}, nil)

		assert.Equal(t, "", env.impl.searchWarehouse(context.Background(), "hola"))
		assert.Equal(t, "", env.stats.lastSearchQuery)
	})

	t.Run("formats warehouse hits", func(t *testing.T) {
		env := newChatEnv(t, &fakeStats{searchHits: []entity.StatRecord{
			statRec(map[string]any{"fecha": "2024-03-05", "valor": 4.5}, "fecha", "valor"),
		}}, nil)

		out := env.impl.searchWarehouse(context.Background(), "inflacion")
		assert.Contains(t, out, "**Valor**: 4.5")
		assert.Equal(t, "inflacion", env.stats.lastSearchQuery)
	})
}

func TestDescribeStructure(t *testing.T) {
	env := newChatEnv(t, &fakeStats{structure: map[string][]menu.TableInfo{
		"dwh_socio": {
			{Name: "censo", Columns: []string{"municipio", "pob_2010"}},
		},
		"datalake_economico": {
			{Name: "ipc", Columns: []string{"fecha", "valor", "var_mensual", "var_interanual", "region", "categoria", "nivel"}},
		},
	}}, nil)

	out := env.impl.describeStructure(context.Background())

	// Databases come out sorted by name.
	assert.Less(t, strings.Index(out, "datalake_economico"), strings.Index(out, "dwh_socio"))
	assert.Contains(t, out, "- ipc (7 columnas)")
	assert.Contains(t, out, "Columnas: fecha, valor, var_mensual, var_interanual, region ... (+2 más)")
	assert.Contains(t, out, "Columnas: municipio, pob_2010")
}

func TestExecuteToolEndpoint(t *testing.T) {
	env := newChatEnv(t, &fakeStats{}, nil)

	res, err := env.svc.ExecuteTool(context.Background(), &dto.ToolRequest{Tool: "get_dolar"})
	require.NoError(t, err)
	assert.Equal(t, "No se encontraron datos del dólar blue.", res.Response)
	assert.Equal(t, "get_dolar", res.Tool)
	assert.Equal(t, "default", res.SessionID)

	_, err = env.svc.ExecuteTool(context.Background(), &dto.ToolRequest{Tool: "get_nada"})
	assert.Error(t, err)
}

func TestHealthReportsWarehouseAndMenu(t *testing.T) {
	env := newChatEnv(t, &fakeStats{available: true}, nil)

	health := env.svc.Health(context.Background())
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.Warehouse)
	assert.Equal(t, env.tree.Size(), health.MenuNodes)
}
