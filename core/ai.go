package core

import (
	"context"
	"errors"
)

// ErrAINotConfigured is returned when the generative-language provider
// credential is missing. Handlers must treat it as a configuration
// error (500), not a user error.
var ErrAINotConfigured = errors.New("AI service configuration error")

// AIService is any service that can relay prompts to a generative-language model.
type AIService interface {
	// Chat answers a student message in the tutor persona.
	// sessionContext carries dashboard state (current unit, subject...).
	Chat(ctx context.Context, message, sessionContext string) (string, error)

	// GenerateChallenge builds a short quiz on topic from the given lesson material.
	GenerateChallenge(ctx context.Context, topic, resourceContent string) (string, error)
}
