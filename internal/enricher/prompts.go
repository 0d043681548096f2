package enricher

import (
	"fmt"
	"strings"

	"storybranch/internal/story"
)

// PromptBuilder constructs the one-shot dialogue prompt for a single
// node.
type PromptBuilder struct{}

// BuildDialoguePrompt asks the model for four alternating turns
// between the patient (speaker 1) and the other character (speaker 2),
// presenting the node's dilemma without resolving it.
func (pb *PromptBuilder) BuildDialoguePrompt(topic string, node *story.Node, role string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Crea dialoghi realistici per storie interattive sulla patologia: %s.\n\n", topic)
	sb.WriteString("Linee guida:\n")
	sb.WriteString("- mantieni coerenza con la situazione, il ragionamento e le scelte disponibili\n")
	sb.WriteString("- rimani neutrale: non suggerire quale scelta sia migliore\n")
	sb.WriteString("- presenta il dilemma senza risolverlo\n")
	sb.WriteString("- inizia in modo naturale e logico\n")
	sb.WriteString("- alterna i messaggi tra paziente (speaker: 1) e altro personaggio (speaker: 2)\n")
	fmt.Fprintf(&sb, "- rifletti le preoccupazioni di una persona con %s\n", topic)
	sb.WriteString("- esplora il dilemma emotivo senza anticipare decisioni\n\n")
	sb.WriteString("Formato output: lista di 4 messaggi json con campi \"speaker\" e \"text\"\n\n")
	sb.WriteString("Esempio 1 (invito a pranzo):\n")
	sb.WriteString(`[
  {"speaker": 2, "text": "Ehi, stiamo andando tutti a pranzo al nuovo ristorante. Ti unisci a noi?"},
  {"speaker": 1, "text": "Mi piacerebbe, ma devo fare attenzione a cosa mangio per la mia condizione..."},
  {"speaker": 2, "text": "Capisco, hanno anche opzioni salutari nel menu se preferisci."},
  {"speaker": 1, "text": "Ok, grazie. Valuto un attimo..."}
]`)
	sb.WriteString("\n\nEsempio 2 (attività fisica):\n")
	sb.WriteString(`[
  {"speaker": 1, "text": "Oggi mi sento un po' stanco, non so se fare la mia solita camminata."},
  {"speaker": 2, "text": "Capisco, è importante ascoltare il proprio corpo. Come ti senti rispetto ai valori?"},
  {"speaker": 1, "text": "Sono stabili, ma ho avuto una giornata impegnativa e sono preoccupato di affaticarmi troppo."},
  {"speaker": 2, "text": "Capisco... cosa pensi sia meglio?"}
]`)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "**Situazione:** %s\n\n", node.Situation)
	fmt.Fprintf(&sb, "**Ragionamento:** %s\n\n", node.Reasoning)
	fmt.Fprintf(&sb, "**Background:** %s\n\n", node.Setting)
	fmt.Fprintf(&sb, "**Personaggio 1:** Paziente con %s\n\n", topic)
	fmt.Fprintf(&sb, "**Personaggio 2:** %s\n\n", role)
	if len(node.Choices) > 0 {
		fmt.Fprintf(&sb, "**Scelta 1:** %s\n\n", node.Choices[0].Text)
	}
	if len(node.Choices) > 1 {
		fmt.Fprintf(&sb, "**Scelta 2:** %s\n\n", node.Choices[1].Text)
	}
	sb.WriteString("Crea una conversazione di 4 messaggi che:\n")
	sb.WriteString("1. Inizi in modo naturale e appropriato al contesto\n")
	sb.WriteString("2. Presenti il dilemma in modo equilibrato\n")
	sb.WriteString("3. Rimanga neutrale rispetto alle scelte\n")
	sb.WriteString("4. Non anticipi la decisione finale\n")
	return sb.String()
}
