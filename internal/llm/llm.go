package llm

import (
	"context"
	"errors"
	"fmt"
)

// AnswerNotFound is returned as the answer when a successful response carries no text.
const AnswerNotFound = "Javob topilmadi."

// ErrGenerationFailed is returned once the retry budget is exhausted.
var ErrGenerationFailed = errors.New("generation failed")

// Payload is a single generation request.
type Payload struct {
	Prompt            string
	SystemInstruction string
}

// Provider performs exactly one call against a generation endpoint.
type Provider interface {
	Generate(ctx context.Context, p Payload) (string, error)
}

// Generator turns a prompt into an answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StatusError reports a non-success HTTP status from the generation endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("generation endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("generation endpoint returned status %d: %s", e.Code, e.Body)
}
