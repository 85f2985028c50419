package menu

import (
	"fmt"
	"log"
	"strings"
)

// FallbackMenuText is the hardcoded 3-option menu shown whenever a render
// cannot produce anything better. FormatMenu never returns an empty string.
const FallbackMenuText = "1. 📊 Datos Económicos\n2. 👥 Datos Sociales\n3. ℹ️ Información General"

// technical terms that keep a description out of the rendered menu
var technicalTerms = []string{"base de datos", "tabla", "datalake", "dwh"}

const helpText = `
═══════════════════════════════════════════════════════
  📖 CÓMO USAR EL CHATBOT
═══════════════════════════════════════════════════════

📌 NAVEGACIÓN POR MENÚ:
   • Puedes navegar seleccionando números (1, 2, 3...)
   • O escribiendo palabras clave relacionadas

📌 PREGUNTAS ABIERTAS:
   • Escribe tu pregunta directamente
   • El bot detectará palabras clave automáticamente
   • Buscará en la base de datos de forma inteligente

📌 COMANDOS ESPECIALES:
   • "menú" o "menu" → Volver al menú principal
   • "atrás" o "back" → Volver al menú anterior
   • "ayuda" → Mostrar esta ayuda

📌 EJEMPLOS DE PREGUNTAS:
   • "¿Cuál es el último valor de inflación?"
   • "Muéstrame datos económicos del año 2023"
   • "Información sobre población"
   • "Estructura de las bases de datos"

═══════════════════════════════════════════════════════
`

// FormatMenu renders a node for the user: a numbered list of its valid
// children, the help text for info leaves, or a searching placeholder for
// query leaves. Dangling child references are skipped, technical
// descriptions are hidden, and any anomaly degrades to the fallback menu.
func (t *Tree) FormatMenu(nodeID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if nodeID == "" {
		nodeID = t.rootID
	}
	if nodeID == "" {
		nodeID = "root"
	}

	node := t.nodes[nodeID]
	if node == nil {
		log.Printf("[MENU] node %q not found, trying first available node", nodeID)
		if len(t.order) > 0 {
			node = t.nodes[t.order[0]]
		}
		if node == nil {
			return FallbackMenuText
		}
	}

	var b strings.Builder

	switch {
	case len(node.Children) > 0:
		valid := make([]*Node, 0, len(node.Children))
		for _, childID := range dedupe(node.Children) {
			child := t.nodes[childID]
			if child == nil {
				log.Printf("[MENU] child node %q not found, skipping", childID)
				continue
			}
			valid = append(valid, child)
		}
		if len(valid) == 0 {
			log.Printf("[MENU] no valid children for node %q", nodeID)
			return "❌ No hay opciones disponibles en este menú."
		}
		for i, child := range valid {
			fmt.Fprintf(&b, "%d. %s\n", i+1, child.Title)
			if child.Description != "" && !isTechnicalDescription(child.Description) {
				fmt.Fprintf(&b, "   └─ %s\n", child.Description)
			}
		}
	case node.Action == ActionInfo:
		b.WriteString(infoContent(node))
	case node.Action == ActionQuery:
		fmt.Fprintf(&b, "🔍 Buscando información sobre: %s", node.Title)
	}

	result := strings.TrimSpace(b.String())
	if result == "" {
		log.Printf("[MENU] empty render for node %q, using fallback", nodeID)
		return FallbackMenuText
	}
	return result
}

func isTechnicalDescription(description string) bool {
	lower := strings.ToLower(description)
	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func infoContent(node *Node) string {
	if node.InfoText != "" {
		return node.InfoText
	}
	if node.ID == "ayuda" {
		return helpText
	}
	return ""
}
