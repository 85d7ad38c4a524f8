package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/soma/core"
)

var (
	errMessageRequired   = echo.NewHTTPError(http.StatusBadRequest, "Message is required")
	errChallengeRequired = echo.NewHTTPError(http.StatusBadRequest, "Topic and resource content are required")
	errAIConfig          = echo.NewHTTPError(http.StatusInternalServerError, "AI service configuration error")
	errChatFailed        = echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate response")
	errChallengeFailed   = echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate challenge")

	chatFallback = "I'm sorry, I couldn't process that. Please try again."
)

type (
	ChatRequest struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}

	ChatResponse struct {
		Response string `json:"response"`
	}

	ChallengeRequest struct {
		Topic           string `json:"topic"`
		ResourceContent string `json:"resourceContent"`
	}

	ChallengeResponse struct {
		Challenge string `json:"challenge"`
	}
)

// aiApi relays prompts to the generative-language provider. Stateless:
// each request stands alone, failures are terminal for that request.
type aiApi struct {
	svc    core.AIService
	logger core.Logger
}

func registerAIAPI(g *echo.Group, svc core.AIService, logger core.Logger) {
	api := aiApi{svc: svc, logger: logger}

	ag := g.Group("/ai")
	ag.POST("/chat", api.chat)
	ag.POST("/challenge", api.challenge)
}

// Handlers

func (api *aiApi) chat(ctx echo.Context) error {
	var data ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	if data.Message == "" {
		return errMessageRequired
	}

	text, err := api.svc.Chat(ctx.Request().Context(), data.Message, data.Context)
	if err != nil {
		if errors.Cause(err) == core.ErrAINotConfigured {
			api.logger.Error("[SOMA-AI] API key missing", err)
			return errAIConfig
		}
		api.logger.Error(fmt.Sprintf("[SOMA-AI] generation error: %v", err), err)
		return errChatFailed
	}
	if text == "" {
		text = chatFallback
	}
	return ctx.JSON(http.StatusOK, ChatResponse{Response: text})
}

func (api *aiApi) challenge(ctx echo.Context) error {
	var data ChallengeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChallengeRequest")
	}
	if data.Topic == "" || data.ResourceContent == "" {
		return errChallengeRequired
	}

	challenge, err := api.svc.GenerateChallenge(ctx.Request().Context(), data.Topic, data.ResourceContent)
	if err != nil {
		if errors.Cause(err) == core.ErrAINotConfigured {
			api.logger.Error("[SOMA-AI] API key missing", err)
			return errAIConfig
		}
		api.logger.Error(fmt.Sprintf("[SOMA-AI] challenge generation error: %v", err), err)
		return errChallengeFailed
	}
	return ctx.JSON(http.StatusOK, ChallengeResponse{Challenge: challenge})
}
