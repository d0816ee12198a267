package answer

import "context"

// Package answer turns (document text, question) into an answer string by
// delegating to an external language model. The model call sits behind the
// Answerer interface so services and tests can stub it.

// Answerer generates an answer to a question grounded in the given context
// text. Implementations are expected to reply with CannotFindAnswer when the
// answer is not derivable from the context; that contract is enforced by
// prompt framing, not locally provable.
type Answerer interface {
	Answer(ctx context.Context, contextText, question string) (string, error)
}

// CannotFindAnswer is the sentinel phrase the model is instructed to return
// when the context does not contain the answer.
const CannotFindAnswer = "I cannot find the answer in the document."
