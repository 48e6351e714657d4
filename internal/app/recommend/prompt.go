package recommend

import (
	"fmt"
	"strings"

	"github.com/rkanzaki/shopscout/internal/domain"
)

const extractInstruction = `Condense the user's expressed shopping preferences from the conversation below into ONE search keyword (a short phrase, no explanation, no quotes). Reply with the keyword only.`

func buildExtractPrompt(turns []domain.Turn) string {
	return extractInstruction + "\n\n" + renderTurns(turns)
}

func buildExplainPrompt(name, sourceLabel string, conditions domain.SearchQuery) string {
	return fmt.Sprintf(
		"The user is shopping for: %s\n"+
			"Explain in 1-2 sentences why the product %q (sold on %s) fits what they asked for. "+
			"Reply with the explanation only.",
		conditions, name, sourceLabel,
	)
}

// renderTurns flattens a turn history into role-prefixed lines.
func renderTurns(turns []domain.Turn) string {
	var parts []string
	for _, t := range turns {
		parts = append(parts, "user: "+t.User)
		parts = append(parts, "assistant: "+t.Assistant)
	}
	return strings.Join(parts, "\n")
}
