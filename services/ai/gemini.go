package aisvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/trezcool/soma/core"
)

const (
	tutorInstructionFmt = `You are Soma-Agent, an elite AI tutor for students at %s, %s. Motto: '%s'.
Specialized in the Ugandan NCDC O-Level syllabus (Biology, Physics, Chemistry, Math).

STRICT FORMATTING RULES:
1. Use Markdown headers (###) for sub-topics.
2. Use Bold (**term**) for important Ugandan educational concepts or NCDC keywords.
3. Use bullet points for lists of facts or steps.
4. Use horizontal rules (---) to separate sections if a response is long.
5. Use blockquotes (>) for motivational Ugandan proverbs or teacher tips.

PEDAGOGICAL FLOW:
- If the student is just saying "hello" or starting, you MUST first present a "Table of Contents" for the O-Level Biology syllabus:
  * Unit 1: **Cell Biology**
  * Unit 2: **Plant Nutrition**
  * Unit 3: **Human Transport**
  * Unit 4: **Coordination**
  * Unit 5: **Homeostasis**
- After listing these, ask: "Which of these specialized areas should we dive into first?"
- Persona: Highly professional yet encouraging. Uses local analogies (e.g., comparing blood circulation to Kampala's taxi park flow).
- Current Context: %s.`

	directorInstructionFmt = `You are an Academic Director at %s, %s. Motto: '%s'.
Ensure all questions are strictly aligned with the provided lesson notes and formatted for high readability.`

	challengePromptFmt = `Generate a short, interactive 3-question quiz for the topic %q using the following specific material: %q.

FORMATTING:
- Use bold for the questions.
- Use numbered lists.
- Provide a section at the bottom called "### Mastery Key" for the answers.`
)

type geminiService struct {
	conf   *core.Config
	logger core.Logger

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

var _ core.AIService = (*geminiService)(nil)

func NewGeminiService(conf *core.Config, logger core.Logger) *geminiService {
	return &geminiService{conf: conf, logger: logger}
}

// getClient lazily builds the Gemini client so a missing credential
// surfaces as core.ErrAINotConfigured on first use instead of at boot.
func (svc *geminiService) getClient(ctx context.Context) (*genai.Client, error) {
	if svc.conf.GeminiAPIKey == "" {
		return nil, core.ErrAINotConfigured
	}
	svc.initOnce.Do(func() {
		svc.client, svc.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  svc.conf.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if svc.initErr != nil {
		return nil, errors.Wrap(svc.initErr, "creating gemini client")
	}
	return svc.client, nil
}

func (svc *geminiService) generate(ctx context.Context, model, prompt, instruction string) (string, error) {
	client, err := svc.getClient(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, svc.conf.GeminiCallTimeout)
	defer cancel()

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
	})
	if err != nil {
		return "", errors.Wrap(err, "generating content")
	}
	return resp.Text(), nil
}

func (svc *geminiService) Chat(ctx context.Context, message, sessionContext string) (string, error) {
	instruction := fmt.Sprintf(
		tutorInstructionFmt,
		svc.conf.School.Name, svc.conf.School.Location, svc.conf.School.Motto,
		sessionContext,
	)
	return svc.generate(ctx, svc.conf.GeminiChatModel, message, instruction)
}

func (svc *geminiService) GenerateChallenge(ctx context.Context, topic, resourceContent string) (string, error) {
	instruction := fmt.Sprintf(
		directorInstructionFmt,
		svc.conf.School.Name, svc.conf.School.Location, svc.conf.School.Motto,
	)
	prompt := fmt.Sprintf(challengePromptFmt, topic, resourceContent)
	return svc.generate(ctx, svc.conf.GeminiQuizModel, prompt, instruction)
}
