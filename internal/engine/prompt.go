package engine

import (
	"fmt"
	"strings"

	"github.com/valpere/mortgate/internal/history"
)

// buildSystemPrompt writes the localizer instruction for a translation turn.
// The separator token appears verbatim so the model reproduces it exactly.
func buildSystemPrompt(sourceLang, targetLang, sep string) string {
	var sb strings.Builder

	sb.WriteString("You are a professional video game localizer and a strict linguistic parser.\n")
	sb.WriteString(fmt.Sprintf("Translate the text from '%s' to '%s'.\n", sourceLang, targetLang))
	sb.WriteString("CORE DIRECTIVE: Deliver the most accurate literary translation. Prioritize idiomatic and natural expressions, adapting the syntax to ensure the highest stylistic quality and native flow.\n")
	sb.WriteString("GENDER PARSING: Analyze gender indicators (pronouns, verbs, adjectives). Use the previous dialog turns for verification.\n")
	sb.WriteString("OUTPUT RULE: Return ONLY the translated text. DO NOT include any commentary, explanations, or introductory text.\n")
	sb.WriteString(fmt.Sprintf("MANDATORY FORMATTING: MUST preserve all line breaks (\\n) and separators (%s). ABSOLUTELY DO NOT modify the structure.", sep))

	return sb.String()
}

// buildMessages assembles the ordered chat-completion conversation: the
// system instruction, prior (source, translated) exchanges from the context
// snapshot rendered as user/assistant turns, and the current segment-joined
// text as the final user turn.
func buildMessages(sourceLang, targetLang, sep, text string, snapshot []history.Entry) []message {
	messages := make([]message, 0, 2+2*len(snapshot))
	messages = append(messages, message{
		Role:    "system",
		Content: buildSystemPrompt(sourceLang, targetLang, sep),
	})
	for _, entry := range snapshot {
		messages = append(messages,
			message{Role: "user", Content: entry.Source},
			message{Role: "assistant", Content: entry.Translated},
		)
	}
	messages = append(messages, message{Role: "user", Content: text})
	return messages
}
