package aisvc

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/soma/core"
	testutil "github.com/trezcool/soma/tests"
)

func Test_geminiService_missingKey(t *testing.T) {
	conf := testutil.NewConfig()
	conf.GeminiAPIKey = ""
	svc := NewGeminiService(conf, testutil.NopLogger{})
	ctx := context.Background()

	if _, err := svc.Chat(ctx, "Explain photosynthesis", "student"); errors.Cause(err) != core.ErrAINotConfigured {
		t.Errorf("Chat() error = %v, want %v", err, core.ErrAINotConfigured)
	}
	if _, err := svc.GenerateChallenge(ctx, "Photosynthesis", "notes"); errors.Cause(err) != core.ErrAINotConfigured {
		t.Errorf("GenerateChallenge() error = %v, want %v", err, core.ErrAINotConfigured)
	}
}
