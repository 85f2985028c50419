package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ipecd-chatbot-be/internal/config"
	"ipecd-chatbot-be/internal/constant"
	"ipecd-chatbot-be/internal/dto"
	"ipecd-chatbot-be/internal/entity"
	"ipecd-chatbot-be/internal/pkg/logger"
	"ipecd-chatbot-be/internal/repository/contract"
	"ipecd-chatbot-be/pkg/intent"
	"ipecd-chatbot-be/pkg/learning"
	"ipecd-chatbot-be/pkg/llm"
	"ipecd-chatbot-be/pkg/llm/failover"
	"ipecd-chatbot-be/pkg/menu"
	"ipecd-chatbot-be/pkg/router"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ChatTurnTopic carries finished conversation turns to the consumer
// that persists them and feeds the learning memory.
const ChatTurnTopic = "chat.turns"

type IChatService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	ExecuteTool(ctx context.Context, request *dto.ToolRequest) (*dto.ToolResponse, error)
	Menu(ctx context.Context, sessionID string) *dto.MenuResponse
	Reset(ctx context.Context, sessionID string) *dto.MenuResponse
	Health(ctx context.Context) *dto.HealthResponse
}

type chatService struct {
	cfg        config.ChatbotConfig
	tree       *menu.Tree
	enhancer   *menu.Enhancer
	related    *menu.RelatedOptionsFinder
	detector   *intent.Detector
	classifier *intent.Classifier
	chain      *failover.Chain
	tools      *ToolService
	router     *router.Router
	memory     *learning.Memory
	sessions   contract.SessionRepository
	stats      contract.StatisticsRepository
	enricher   *EnrichService
	pubSub     *gochannel.GoChannel
	log        logger.ILogger
}

func NewChatService(
	cfg config.ChatbotConfig,
	tree *menu.Tree,
	enhancer *menu.Enhancer,
	detector *intent.Detector,
	classifier *intent.Classifier,
	chain *failover.Chain,
	toolService *ToolService,
	memory *learning.Memory,
	sessions contract.SessionRepository,
	stats contract.StatisticsRepository,
	enricher *EnrichService,
	pubSub *gochannel.GoChannel,
	log logger.ILogger,
) IChatService {
	return &chatService{
		cfg:        cfg,
		tree:       tree,
		enhancer:   enhancer,
		related:    menu.NewRelatedOptionsFinder(tree, cfg.MaxRelatedOptions),
		detector:   detector,
		classifier: classifier,
		chain:      chain,
		tools:      toolService,
		router:     router.NewRouter(toolService),
		memory:     memory,
		sessions:   sessions,
		stats:      stats,
		enricher:   enricher,
		pubSub:     pubSub,
		log:        log,
	}
}

// turnMeta describes how a finished turn should be recorded.
type turnMeta struct {
	Intent       string
	Category     string
	Source       string
	Provider     string
	Tool         string
	IsConceptual bool
	Learnable    bool
	SkipUserTurn bool
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

func isDigits(s string) bool {
	return digitsOnly.MatchString(s)
}

func (s *chatService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = "default"
	}

	session, found := s.sessions.Get(sessionID)
	if !found {
		session = entity.NewChatSession(sessionID, s.tree.RootID())
	}

	userInput := strings.TrimSpace(request.Message)

	// Empty input shows the root menu.
	if userInput == "" {
		menuText := s.tree.FormatMenu(s.tree.RootID())
		return s.finish(ctx, session, userInput, menuText, turnMeta{Source: entity.ChatSourceMenu, SkipUserTurn: true}), nil
	}

	// Menu keywords reset the whole conversation.
	lowerInput := strings.ToLower(userInput)
	for _, keyword := range constant.MenuKeywords {
		if lowerInput == keyword {
			session.Reset(s.tree.RootID())
			menuText := constant.WelcomeBackPrefix + s.tree.FormatMenu(s.tree.RootID())
			return s.finish(ctx, session, userInput, menuText, turnMeta{Source: entity.ChatSourceMenu}), nil
		}
	}

	// Numeric menu selection runs before any classification. Selecting a
	// query leaf swaps the input for the node's query; that synthetic text
	// must not go through the classifier or another menu match.
	fromMenu := false
	if isDigits(userInput) {
		original := userInput
		if response, handled := s.handleMenuNumber(ctx, session, userInput, &userInput); handled {
			return response, nil
		}
		fromMenu = userInput != original
	}

	if fromMenu && userInput == "structure" {
		if response := s.describeStructure(ctx); response != "" {
			return s.finish(ctx, session, userInput, response, turnMeta{Source: entity.ChatSourceTool}), nil
		}
	}

	// A message matching a menu entry verbatim executes it directly.
	if !fromMenu && !isDigits(userInput) {
		if node := s.tree.FindNodeByKeyword(userInput); node != nil {
			if response, handled := s.executeMenuNode(ctx, session, node, userInput, true); handled {
				return response, nil
			}
		}
	}

	var classification intent.Classification
	if fromMenu {
		classification = intent.Classification{Intent: intent.IntentDataQuery, Confidence: 1.0}
	} else {
		classification = s.classifier.Classify(ctx, userInput)
		s.log.Info("CHAT", "intent classified", map[string]interface{}{
			"session":    sessionID,
			"intent":     classification.Intent,
			"confidence": classification.Confidence,
		})

		if response := s.cannedResponse(ctx, session, userInput, classification.Intent); response != nil {
			return response, nil
		}
	}

	// Learned responses short-circuit the whole pipeline.
	if !isDigits(userInput) && intent.IsDomainRelevant(userInput) {
		if learned, ok := s.memory.GetResponse(ctx, userInput); ok {
			return s.finish(ctx, session, userInput, learned, turnMeta{
				Intent: classification.Intent,
				Source: entity.ChatSourceMemory,
			}), nil
		}
	}

	// Data questions with a recognizable topic go straight to the tool
	// router instead of the menu.
	skipMenuSearch := false
	isDataQuery := classification.Intent == intent.IntentDataQuery || classification.Intent == intent.IntentConceptual
	if isDataQuery && (len(classification.Entities) > 0 || classification.IsComparison || classification.Topic != "") {
		skipMenuSearch = true
		if result := s.router.RouteAndExecute(ctx, userInput); result != nil {
			response := s.enricher.Enrich(ctx, result.Response, userInput)
			return s.finish(ctx, session, userInput, response, turnMeta{
				Intent:    classification.Intent,
				Source:    entity.ChatSourceTool,
				Tool:      result.Tool,
				Learnable: s.learnable(userInput, response),
			}), nil
		}
	}

	// Fuzzy-match the message against menu titles and keywords.
	if !skipMenuSearch && !fromMenu && !isDigits(userInput) {
		if matched, score := s.bestMenuMatch(session, userInput); matched != nil && score >= 20 {
			if intent.IsConceptualQuestion(userInput) {
				return s.conceptualAnswer(ctx, session, matched, userInput, classification.Intent)
			}
			s.resetCategoryFor(session, matched, false)
			if response, handled := s.executeMenuNode(ctx, session, matched, userInput, false); handled {
				return response, nil
			}
			if matched.DBQuery != "" {
				userInput = matched.DBQuery
			}
		}
	}

	var detection intent.Detection
	if skipMenuSearch || fromMenu {
		detection = intent.OpenDetection{Query: userInput, Score: 1.0}
	} else {
		detection = s.detector.Detect(userInput, session.CurrentNodeID)
	}

	switch d := detection.(type) {
	case intent.MenuDetection:
		if d.Score >= 0.8 {
			return s.navigateToMenu(ctx, session, d.NodeID, userInput), nil
		}
	case intent.BackDetection:
		// The trail top is the node the user is on, so drop it first
		// and land on whatever remains.
		session.PopHistory()
		prev := session.PeekHistory()
		if prev == "" {
			prev = s.tree.RootID()
		}
		session.CurrentNodeID = prev
		return s.finish(ctx, session, userInput, s.tree.FormatMenu(prev), turnMeta{Source: entity.ChatSourceMenu}), nil
	case intent.QueryDetection:
		if d.QueryType == "structure" {
			if response := s.describeStructure(ctx); response != "" {
				return s.finish(ctx, session, userInput, response, turnMeta{Source: entity.ChatSourceTool}), nil
			}
		}
	}

	dbQuery := s.buildDBQuery(detection, userInput)
	dbResult := s.searchWarehouse(ctx, dbQuery)

	var extraSystem []string
	if dbResult != "" {
		extraSystem = append(extraSystem, fmt.Sprintf(constant.DBFoundContextTemplate, dbResult))
	} else {
		if related := s.related.FindRelated(userInput); len(related) > 0 {
			response := s.related.FormatRelatedMenu(userInput, related)
			return s.finish(ctx, session, userInput, response, turnMeta{Source: entity.ChatSourceMenu}), nil
		}
		extraSystem = append(extraSystem, constant.NoDataContext)
	}

	outcome, err := s.llmChat(ctx, session, userInput, extraSystem)
	if err != nil {
		s.log.Error("CHAT", "all providers failed", map[string]interface{}{
			"session": sessionID,
			"error":   err.Error(),
		})
		return s.finish(ctx, session, userInput, constant.FinalErrorResponse, turnMeta{Source: entity.ChatSourceCanned}), nil
	}
	response := outcome.Response

	// A reply promising to search instead of showing data gets one
	// forced retry with the data alone.
	if dbResult != "" && len(response) < 100 && containsAnyPhrase(strings.ToLower(response), constant.SearchPromisePhrases) {
		direct := []llm.Message{
			{Role: constant.ChatMessageRoleSystem, Content: fmt.Sprintf(constant.RetryDirectTemplate, dbResult)},
			{Role: constant.ChatMessageRoleUser, Content: userInput},
		}
		if retry, retryErr := s.chain.Chat(ctx, direct); retryErr == nil && len(retry.Response) > len(response) {
			response = retry.Response
			outcome = retry
		}
	}

	// The model may answer with a tool invocation instead of text.
	if toolResponse, tool, ok := s.resolveToolCall(ctx, session, userInput, response); ok {
		return s.finish(ctx, session, userInput, toolResponse, turnMeta{
			Intent:    classification.Intent,
			Source:    entity.ChatSourceTool,
			Tool:      tool,
			Provider:  outcome.Provider,
			Learnable: s.learnable(userInput, toolResponse),
		}), nil
	}

	return s.finish(ctx, session, userInput, response, turnMeta{
		Intent:    classification.Intent,
		Source:    entity.ChatSourceLLM,
		Provider:  outcome.Provider,
		Learnable: s.learnable(userInput, response),
	}), nil
}

// handleMenuNumber resolves a numeric selection. The second return is
// false when the selected node is a query leaf, in which case userInput
// has been replaced with the node's query and the data flow continues.
func (s *chatService) handleMenuNumber(ctx context.Context, session *entity.ChatSession, raw string, userInput *string) (*dto.ChatResponse, bool) {
	number, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}

	current := s.tree.GetNode(session.CurrentNodeID)
	if current == nil || len(current.Children) == 0 {
		return s.invalidOption(ctx, session, raw, number), true
	}

	child := s.tree.GetChildByNumber(session.CurrentNodeID, number)
	if child != nil && (child.ID == "economico" || child.ID == "socio") && !s.enhancer.Done() {
		if err := s.enhancer.Enhance(ctx); err != nil {
			s.log.Warn("CHAT", "menu enhancement failed", map[string]interface{}{"error": err.Error()})
		}
		child = s.tree.GetChildByNumber(session.CurrentNodeID, number)
	}
	if child == nil {
		return s.invalidOption(ctx, session, raw, number), true
	}

	s.resetCategoryFor(session, child, true)

	switch child.Action {
	case menu.ActionMenu:
		session.CurrentNodeID = child.ID
		session.PushHistory(child.ID)
		return s.finish(ctx, session, raw, s.tree.FormatMenu(child.ID), turnMeta{Source: entity.ChatSourceMenu}), true
	case menu.ActionTool:
		if child.Tool != "" && s.tools.IsAvailable() {
			result, err := s.tools.Execute(ctx, child.Tool, child.ToolArgs)
			if err != nil {
				result = fmt.Sprintf("Error al ejecutar herramienta: %v", err)
			} else {
				result = s.enricher.Enrich(ctx, result, child.Title)
			}
			return s.finish(ctx, session, raw, result, turnMeta{
				Source:    entity.ChatSourceTool,
				Tool:      child.Tool,
				Learnable: s.learnable(child.Title, result),
			}), true
		}
		return s.invalidOption(ctx, session, raw, number), true
	case menu.ActionInfo:
		if child.InfoText != "" {
			return s.finish(ctx, session, raw, child.InfoText, turnMeta{Source: entity.ChatSourceMenu}), true
		}
		return s.invalidOption(ctx, session, raw, number), true
	default:
		if child.DBQuery != "" {
			*userInput = child.DBQuery
			return nil, false
		}
		return s.invalidOption(ctx, session, raw, number), true
	}
}

func (s *chatService) invalidOption(ctx context.Context, session *entity.ChatSession, raw string, number int) *dto.ChatResponse {
	msg := fmt.Sprintf("Opción %d no válida. Por favor, elige una opción del menú.", number)
	return s.finish(ctx, session, raw, msg, turnMeta{Source: entity.ChatSourceCanned})
}

// executeMenuNode runs a matched node's action. Enrichment only applies
// on the direct keyword-match path.
func (s *chatService) executeMenuNode(ctx context.Context, session *entity.ChatSession, node *menu.Node, userInput string, enrich bool) (*dto.ChatResponse, bool) {
	switch node.Action {
	case menu.ActionTool:
		if node.Tool == "" || !s.tools.IsAvailable() {
			return nil, false
		}
		result, err := s.tools.Execute(ctx, node.Tool, node.ToolArgs)
		if err != nil {
			return nil, false
		}
		result = s.enricher.Enrich(ctx, result, userInput)
		return s.finish(ctx, session, userInput, result, turnMeta{
			Source:    entity.ChatSourceTool,
			Tool:      node.Tool,
			Learnable: s.learnable(userInput, result),
		}), true
	case menu.ActionMenu:
		session.CurrentNodeID = node.ID
		session.PushHistory(node.ID)
		return s.finish(ctx, session, userInput, s.tree.FormatMenu(node.ID), turnMeta{Source: entity.ChatSourceMenu}), true
	case menu.ActionInfo:
		if node.InfoText == "" {
			return nil, false
		}
		return s.finish(ctx, session, userInput, node.InfoText, turnMeta{Source: entity.ChatSourceMenu}), true
	}
	return nil, false
}

func (s *chatService) cannedResponse(ctx context.Context, session *entity.ChatSession, userInput, userIntent string) *dto.ChatResponse {
	switch userIntent {
	case intent.IntentGreeting:
		lower := strings.ToLower(userInput)
		response := constant.GreetingSimpleResponse
		for _, word := range constant.CapabilityWords {
			if strings.Contains(lower, word) {
				response = constant.GreetingCapabilityResponse
				break
			}
		}
		return s.finish(ctx, session, userInput, response, turnMeta{Intent: userIntent, Source: entity.ChatSourceCanned})
	case intent.IntentFarewell:
		return s.finish(ctx, session, userInput, constant.FarewellResponse, turnMeta{Intent: userIntent, Source: entity.ChatSourceCanned})
	case intent.IntentHelp:
		return s.finish(ctx, session, userInput, constant.HelpResponse, turnMeta{Intent: userIntent, Source: entity.ChatSourceCanned})
	case intent.IntentOffTopic:
		return s.finish(ctx, session, userInput, constant.OutOfDomainResponse, turnMeta{Intent: userIntent, Source: entity.ChatSourceCanned})
	}
	return nil
}

func (s *chatService) conceptualAnswer(ctx context.Context, session *entity.ChatSession, node *menu.Node, userInput, userIntent string) (*dto.ChatResponse, error) {
	description := node.Description
	if description == "" {
		description = "Indicador estadístico del IPECD"
	}
	conceptualContext := fmt.Sprintf(constant.ConceptualContextTemplate, node.Title, description)

	outcome, err := s.llmChat(ctx, session, userInput, []string{conceptualContext})
	if err != nil {
		return s.finish(ctx, session, userInput, constant.FinalErrorResponse, turnMeta{Source: entity.ChatSourceCanned}), nil
	}
	return s.finish(ctx, session, userInput, outcome.Response, turnMeta{
		Intent:       userIntent,
		Category:     node.ID,
		Source:       entity.ChatSourceLLM,
		Provider:     outcome.Provider,
		IsConceptual: true,
		Learnable:    s.learnable(userInput, outcome.Response),
	}), nil
}

// bestMenuMatch scores the current menu's children first and widens to
// the whole tree when nothing scores at least 30.
func (s *chatService) bestMenuMatch(session *entity.ChatSession, userInput string) (*menu.Node, int) {
	normalized := normalizeForMatch(userInput)
	words := wordsOf(normalized)

	var best *menu.Node
	bestScore := 0

	if current := s.tree.GetNode(session.CurrentNodeID); current != nil {
		for _, childID := range current.Children {
			child := s.tree.GetNode(childID)
			if child == nil {
				continue
			}
			if score := scoreMenuNode(child, normalized, words); score > bestScore {
				bestScore = score
				best = child
			}
		}
	}

	if best == nil || bestScore < 30 {
		for _, node := range s.tree.Nodes() {
			if score := scoreMenuNode(node, normalized, words); score > bestScore {
				bestScore = score
				best = node
			}
		}
	}
	return best, bestScore
}

var matchStrip = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

func normalizeForMatch(s string) string {
	return strings.TrimSpace(matchStrip.ReplaceAllString(strings.ToLower(s), ""))
}

func wordsOf(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func scoreMenuNode(node *menu.Node, input string, inputWords map[string]struct{}) int {
	score := 0
	if node.Title != "" {
		title := normalizeForMatch(node.Title)
		titleWords := wordsOf(title)
		switch {
		case input == title:
			score = 100
		case strings.Contains(title, input) || strings.Contains(input, title):
			score = 50
		default:
			common := 0
			for w := range inputWords {
				if _, ok := titleWords[w]; ok {
					common++
				}
			}
			score = common * 10
		}
	}
	for _, keyword := range node.Keywords {
		kw := strings.TrimSpace(strings.ToLower(keyword))
		if kw == "" {
			continue
		}
		if strings.Contains(input, kw) || strings.Contains(kw, input) {
			score += 20
		} else if _, ok := inputWords[kw]; ok {
			score += 10
		}
	}
	return score
}

func (s *chatService) navigateToMenu(ctx context.Context, session *entity.ChatSession, nodeID, userInput string) *dto.ChatResponse {
	if (nodeID == "economico" || nodeID == "socio") && !s.enhancer.Done() {
		if err := s.enhancer.Enhance(ctx); err != nil {
			s.log.Warn("CHAT", "menu enhancement failed", map[string]interface{}{"error": err.Error()})
		}
	}

	target := s.tree.GetNode(nodeID)
	if target == nil {
		nodeID = s.tree.RootID()
	} else if !target.IsMenu() {
		if parent := s.tree.NearestMenuAncestor(nodeID); parent != nil {
			nodeID = parent.ID
		}
	}

	session.CurrentNodeID = nodeID
	session.PushHistory(nodeID)
	return s.finish(ctx, session, userInput, s.tree.FormatMenu(nodeID), turnMeta{Source: entity.ChatSourceMenu})
}

// describeStructure renders the warehouse layout as indented text.
func (s *chatService) describeStructure(ctx context.Context) string {
	structure, err := s.stats.DatabaseStructure(ctx)
	if err != nil {
		s.log.Error("CHAT", "structure query failed", map[string]interface{}{"error": err.Error()})
		return ""
	}

	names := make([]string, 0, len(structure))
	for name := range structure {
		names = append(names, name)
	}
	sort.Strings(names)

	var sections []string
	for _, name := range names {
		tables := structure[name]
		var b strings.Builder
		fmt.Fprintf(&b, "Base de datos: %s\n", name)
		fmt.Fprintf(&b, "  Tablas disponibles: %d\n", len(tables))
		limit := len(tables)
		if limit > 10 {
			limit = 10
		}
		for _, table := range tables[:limit] {
			fmt.Fprintf(&b, "    - %s (%d columnas)\n", table.Name, len(table.Columns))
			if len(table.Columns) > 0 {
				cols := table.Columns
				if len(cols) > 5 {
					fmt.Fprintf(&b, "      Columnas: %s ... (+%d más)\n", strings.Join(cols[:5], ", "), len(cols)-5)
				} else {
					fmt.Fprintf(&b, "      Columnas: %s\n", strings.Join(cols, ", "))
				}
			}
		}
		sections = append(sections, b.String())
	}
	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}

// buildDBQuery turns the detection into warehouse search text. Menu
// nodes can carry synthetic queries like "datalake_economico_ultimo_valor"
// that resolve to a latest-value lookup against the named database.
func (s *chatService) buildDBQuery(detection intent.Detection, userInput string) string {
	lower := strings.ToLower(userInput)
	for _, marker := range constant.SpecialQueryMarkers {
		if strings.Contains(lower, marker) {
			if processed := s.processSpecialQuery(lower, userInput); processed != "" {
				return processed
			}
			break
		}
	}

	switch d := detection.(type) {
	case intent.OpenDetection:
		return userInput
	case intent.QueryDetection:
		return intent.BuildDatabaseQuery(d.QueryType, userInput)
	default:
		return userInput
	}
}

var dbNamePattern = regexp.MustCompile(constant.DBNamePattern)

func (s *chatService) processSpecialQuery(lowerQuery, userInput string) string {
	match := dbNamePattern.FindStringSubmatch(lowerQuery)
	if match == nil {
		return ""
	}

	prefix, dbType := match[1], match[2]
	var dbKey string
	switch {
	case strings.HasPrefix(prefix, "datalake_"):
		if dbType == "economico" {
			dbKey = "datalake_economico"
		} else {
			dbKey = "dwh_socio"
		}
	case strings.HasPrefix(prefix, "dwh_"):
		if dbType == "economico" {
			dbKey = "dwh_economico"
		} else {
			dbKey = "dwh_socio"
		}
	default:
		if dbType == "economico" {
			dbKey = "datalake_economico"
		} else {
			dbKey = "dwh_socio"
		}
	}

	if strings.Contains(lowerQuery, "consulta_personalizada") || strings.Contains(lowerQuery, "consulta personalizada") {
		if trimmed := strings.TrimSpace(userInput); trimmed != "" && strings.ToLower(trimmed) != lowerQuery {
			return trimmed
		}
	}
	return "último valor " + dbKey
}

// searchWarehouse looks the query up in the statistics databases and
// formats whatever comes back. Greetings and meta questions never
// trigger a search.
func (s *chatService) searchWarehouse(ctx context.Context, query string) string {
	lower := strings.ToLower(strings.TrimSpace(query))
	for _, keyword := range constant.GeneralKeywords {
		if strings.Contains(lower, keyword) {
			return ""
		}
	}

	records, err := s.stats.Search(ctx, query, 3, 12)
	if err != nil {
		s.log.Error("CHAT", "warehouse search failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return ""
	}
	return formatRecords(records, 10)
}

func (s *chatService) systemPrompt(category string) string {
	toolsDescription := ""
	if s.tools.IsAvailable() {
		toolsDescription = "HERRAMIENTAS DISPONIBLES: " + strings.Join(s.tools.Registry().ListAvailable(), ", ") + "\n\n"
	}
	dbInstruction := ""
	if s.stats.Available() {
		dbInstruction = constant.DBInstruction + "\n\n"
	}
	prompt := fmt.Sprintf(constant.SystemPromptTemplate, toolsDescription, dbInstruction, constant.WebInstruction)
	if focus := intent.CategoryPrompt(category); focus != "" {
		prompt += "\n" + focus
	}
	return prompt
}

func (s *chatService) llmChat(ctx context.Context, session *entity.ChatSession, userInput string, extraSystem []string) (failover.Outcome, error) {
	messages := intent.BuildContextMessages(s.systemPrompt(session.Category), userInput, session.Messages, session.Category, 4)
	for _, content := range extraSystem {
		messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: content})
	}
	return s.chain.Chat(ctx, messages)
}

// resolveToolCall handles a model reply that is a tool invocation JSON.
// The tool result goes back to the model for a final phrasing pass.
func (s *chatService) resolveToolCall(ctx context.Context, session *entity.ChatSession, userInput, response string) (string, string, bool) {
	var call struct {
		Tool      string            `json:"tool"`
		Arguments map[string]string `json:"arguments"`
	}
	trimmed := strings.TrimSpace(response)
	if !strings.HasPrefix(trimmed, "{") || json.Unmarshal([]byte(trimmed), &call) != nil || call.Tool == "" {
		return "", "", false
	}

	result, err := s.tools.Execute(ctx, call.Tool, call.Arguments)
	if err != nil {
		return fmt.Sprintf("Error al ejecutar herramienta: %v", err), call.Tool, true
	}

	messages := intent.BuildContextMessages(s.systemPrompt(session.Category), userInput, session.Messages, session.Category, 4)
	messages = append(messages,
		llm.Message{Role: constant.ChatMessageRoleAssistant, Content: response},
		llm.Message{Role: constant.ChatMessageRoleSystem, Content: result},
	)
	outcome, err := s.chain.Chat(ctx, messages)
	if err != nil || outcome.Response == "" {
		return result, call.Tool, true
	}
	return outcome.Response, call.Tool, true
}

func (s *chatService) resetCategoryFor(session *entity.ChatSession, node *menu.Node, menuNavigation bool) {
	newCategory := intent.DetectCategory(node.Title + " " + node.Description)
	if intent.ShouldResetContext(session.Category, newCategory, menuNavigation) {
		session.Messages = nil
		s.log.Info("CHAT", "context reset on topic change", map[string]interface{}{
			"session":  session.ID,
			"category": newCategory,
		})
	}
	session.Category = newCategory
}

// learnable applies the memory write filters: domain relevant, long
// enough, not a menu, not an error.
func (s *chatService) learnable(question, response string) bool {
	if !intent.IsDomainRelevant(question) {
		return false
	}
	minLength := s.cfg.MinLearnableLength
	if minLength <= 0 {
		minLength = 100
	}
	if len(response) < minLength {
		return false
	}
	head := response
	if len(head) > 200 {
		head = head[:200]
	}
	if strings.HasPrefix(response, "1.") || strings.Contains(head, "└─") {
		return false
	}
	lower := strings.ToLower(response)
	errHead := lower
	if len(errHead) > 100 {
		errHead = errHead[:100]
	}
	sorryHead := lower
	if len(sorryHead) > 50 {
		sorryHead = sorryHead[:50]
	}
	if strings.Contains(errHead, "error") || strings.Contains(sorryHead, "lo siento") {
		return false
	}
	return true
}

func containsAnyPhrase(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// finish records the turn in the session, saves it and hands the turn
// to the async consumer for persistence and learning.
func (s *chatService) finish(ctx context.Context, session *entity.ChatSession, userInput, response string, meta turnMeta) *dto.ChatResponse {
	if !meta.SkipUserTurn && userInput != "" {
		session.Messages = append(session.Messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: userInput})
	}
	session.Messages = append(session.Messages, llm.Message{Role: constant.ChatMessageRoleAssistant, Content: response})
	s.sessions.Save(session)

	category := meta.Category
	if category == "" {
		category = session.Category
	}
	s.publishTurn(dto.ChatTurnMessage{
		SessionID:    session.ID,
		UserInput:    userInput,
		Response:     response,
		Intent:       meta.Intent,
		Category:     category,
		Source:       meta.Source,
		Provider:     meta.Provider,
		Tool:         meta.Tool,
		IsConceptual: meta.IsConceptual,
		Learnable:    meta.Learnable,
	})

	return &dto.ChatResponse{
		Response:  response,
		SessionID: session.ID,
		Tool:      meta.Tool,
		Source:    meta.Source,
	}
}

func (s *chatService) publishTurn(turn dto.ChatTurnMessage) {
	if s.pubSub == nil {
		return
	}
	payload, err := json.Marshal(turn)
	if err != nil {
		s.log.Error("CHAT", "turn marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(ChatTurnTopic, msg); err != nil {
		s.log.Error("CHAT", "turn publish failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *chatService) ExecuteTool(ctx context.Context, request *dto.ToolRequest) (*dto.ToolResponse, error) {
	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = "default"
	}
	result, err := s.tools.Execute(ctx, request.Tool, request.Args)
	if err != nil {
		return nil, err
	}
	return &dto.ToolResponse{
		Response:  result,
		SessionID: sessionID,
		Tool:      request.Tool,
	}, nil
}

// Menu renders the menu the session is currently looking at. A session
// that does not exist yet sees the root menu; nothing is persisted.
func (s *chatService) Menu(ctx context.Context, sessionID string) *dto.MenuResponse {
	if sessionID == "" {
		sessionID = "default"
	}
	nodeID := s.tree.RootID()
	if session, found := s.sessions.Get(sessionID); found {
		nodeID = session.CurrentNodeID
	}
	return &dto.MenuResponse{
		SessionID:   sessionID,
		CurrentNode: nodeID,
		Menu:        s.tree.FormatMenu(nodeID),
	}
}

// Reset drops the session's navigation and conversation state and
// returns the root menu.
func (s *chatService) Reset(ctx context.Context, sessionID string) *dto.MenuResponse {
	if sessionID == "" {
		sessionID = "default"
	}
	session, found := s.sessions.Get(sessionID)
	if !found {
		session = entity.NewChatSession(sessionID, s.tree.RootID())
	}
	session.Reset(s.tree.RootID())
	s.sessions.Save(session)

	return &dto.MenuResponse{
		SessionID:   sessionID,
		CurrentNode: session.CurrentNodeID,
		Menu:        s.tree.FormatMenu(session.CurrentNodeID),
	}
}

func (s *chatService) Health(ctx context.Context) *dto.HealthResponse {
	return &dto.HealthResponse{
		Status:    "healthy",
		Warehouse: s.stats.Available(),
		MenuNodes: s.tree.Size(),
	}
}
