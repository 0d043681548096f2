package generator

import (
	"fmt"
	"strings"
)

// PromptBuilder constructs the prompts for the two generation stages.
// Instruction text is Italian, matching the default generation
// language of the narratives.
type PromptBuilder struct{}

// BuildFormatterPrompt asks the model to clean and reformat extracted
// text without touching its substance.
func (pb *PromptBuilder) BuildFormatterPrompt(rawText, topic, language string) string {
	var sb strings.Builder
	sb.WriteString("Sei un esperto nell'editing e nella formattazione di testi informativi.\n")
	fmt.Fprintf(&sb, "Prenditi cura di ripulire e riformattare il testo fornito riguardo a %s, scritto in **%s**, senza modificarne il contenuto sostanziale.\n\n", topic, language)
	sb.WriteString("Il tuo compito è:\n")
	sb.WriteString("- mantenere intatto tutto il significato originale\n")
	sb.WriteString("- migliorare la leggibilità, correggendo errori grammaticali o sintattici\n")
	sb.WriteString("- rendere il testo più chiaro e scorrevole, preferendo un linguaggio diretto e accessibile\n")
	sb.WriteString("- suddividere logicamente il testo in paragrafi, se necessario\n")
	sb.WriteString("- mantenere eventuali informazioni pratiche (gestione, sintomi, trattamenti, stile di vita, supporto) così come sono, ma rendendole più facilmente comprensibili\n")
	sb.WriteString("\n### TESTO DA RIFORMATTARE ###\n")
	sb.WriteString(rawText)
	return sb.String()
}

// BuildStoryPrompt asks the model for the full branching narrative as
// a JSON document with the requested number of decision nodes.
func (pb *PromptBuilder) BuildStoryPrompt(cleanedText, topic, language string, nodeCount int) string {
	var sb strings.Builder
	sb.WriteString("Sei un esperto nella creazione di esperienze narrative interattive per persone con condizioni di salute.\n")
	fmt.Fprintf(&sb, "Crea una *story branch* composta da %d nodi decisionali, basata sul testo fornito riguardo a %s.\n\n", nodeCount, topic)
	sb.WriteString("Per ogni nodo:\n")
	fmt.Fprintf(&sb, "1. Descrivi una situazione realistica che potrebbe verificarsi durante una giornata tipica di una persona con %s, in cui sia necessario compiere una scelta.\n", topic)
	sb.WriteString("2. Fornisci una spiegazione del perché di questa situazione, in base alle informazioni disponibili.\n")
	sb.WriteString("3. Fornisci ESATTAMENTE 2 opzioni di scelta plausibili, entrambe con vantaggi e compromessi, evitando che una risulti chiaramente 'giusta'.\n")
	sb.WriteString("4. Per ciascuna opzione, descrivi:\n")
	sb.WriteString("- l'effetto immediato della scelta\n")
	sb.WriteString("- l'impatto a breve o medio termine sulla condizione di salute e sul benessere generale della persona\n")
	sb.WriteString("- un punteggio: +1 per la scelta più corretta dal punto di vista medico, -1 per la scelta meno corretta\n\n")
	sb.WriteString("Assicurati che le situazioni riguardino momenti diversi della giornata, come:\n")
	sb.WriteString("- routine del mattino\n")
	sb.WriteString("- attività lavorative o quotidiane\n")
	sb.WriteString("- relazioni sociali\n")
	sb.WriteString("- pasti\n")
	sb.WriteString("- attività fisica\n")
	sb.WriteString("- routine serale\n")
	sb.WriteString("- eventi imprevisti\n\n")
	sb.WriteString("Rendi le scelte non ovvie:\n")
	sb.WriteString("- Inserisci compromessi in entrambe le opzioni, affinché nessuna sia chiaramente migliore\n")
	sb.WriteString("- Usa un linguaggio sfumato, evitando termini assoluti o moralistici come \"ignora\", \"salta\", \"non prendere\", \"non fare\"\n")
	sb.WriteString("- Considera le motivazioni personali e soggettive (es. dovere vs piacere, efficienza vs benessere)\n")
	sb.WriteString("- Ritarda o attenua gli effetti delle scelte per rendere più difficile intuire quale sia la più utile\n\n")
	sb.WriteString("Esempio 1 di nodo:\n")
	sb.WriteString("Al mattino, Mario si sveglia e deve prendere i farmaci. Deve decidere se fare una colazione o no.\n")
	sb.WriteString("Opzione A\n")
	sb.WriteString("Mario decide di prepararsi un caffè veloce con un biscotto avanzato dalla sera prima. Non è una colazione vera e propria, ma gli consente di prendere comunque i farmaci. Si prende qualche minuto in più del previsto, ma spera che questa pausa lo aiuti a sentirsi più lucido nel corso della mattinata.\n")
	sb.WriteString("Score: +1\n")
	sb.WriteString("Opzione B\n")
	sb.WriteString("Mario opta per saltare la colazione e rimandare l'assunzione dei farmaci a quando troverà un momento tranquillo. Preferisce approfittare dell'energia mentale iniziale per sbrigare le prime attività mentre la casa è ancora silenziosa. Pensa che potrà recuperare più tardi, magari durante la pausa pranzo.\n")
	sb.WriteString("Score: -1\n\n")
	sb.WriteString("Esempio 2 di nodo:\n")
	sb.WriteString("All'ora della pausa, i colleghi invitano Matteo a prendere un espresso al bar e a mangiare una brioche.\n")
	sb.WriteString("Opzione A\n")
	sb.WriteString("Va al bar con gli altri e prende un caffè, senza mangiare la brioche, per non rinunciare alla compagnia e limitare gli extra.\n")
	sb.WriteString("Score: -1\n")
	sb.WriteString("Opzione B\n")
	sb.WriteString("Declina l'invito e resta alla scrivania con la propria bottiglietta d'acqua, sfruttando la pausa per rilassarsi.\n")
	sb.WriteString("Score: +1\n\n")
	fmt.Fprintf(&sb, "Tutto il testo deve essere scritto in **%s**.\n", language)

	sb.WriteString("\n**FORMATO OUTPUT**: rispondi SOLO con un oggetto JSON con questa struttura:\n")
	sb.WriteString(`{"nodes": [{"situation": "...", "reasoning": "...", "choices": [{"text": "...", "outcome": "...", "impact": "...", "score": 1}, {"text": "...", "outcome": "...", "impact": "...", "score": -1}]}]}`)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "**Patologia: %s**\n\n", topic)
	fmt.Fprintf(&sb, "**Riassunto delle informazioni su %s:**\n%s\n\n", topic, cleanedText)
	fmt.Fprintf(&sb, "Crea una *story branch* con nodi decisionali per una persona che convive con %s.\n", topic)
	return sb.String()
}
