package answer

import "fmt"

// maxContextChars is the fixed character budget for document text sent to the
// model. Changing it changes answer quality and cost; keep it at this value.
const maxContextChars = 30000

const promptTemplate = `Based on the following text from a PDF document, please answer the question.
If the answer cannot be found in the text, say "%s"

Text: %s

Question: %s

Answer:`

// buildPrompt frames the question against the document text, truncated to the
// character budget.
func buildPrompt(contextText, question string) string {
	return fmt.Sprintf(promptTemplate, CannotFindAnswer, truncate(contextText, maxContextChars), question)
}

// truncate cuts s to at most n characters (runes, not bytes).
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
