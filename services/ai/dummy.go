package aisvc

import (
	"context"

	"github.com/trezcool/soma/core"
)

// DummyService returns canned responses for tests. Set Err to exercise
// failure paths.
type DummyService struct {
	ChatResponse      string
	ChallengeResponse string
	Err               error
}

var _ core.AIService = (*DummyService)(nil)

func (svc *DummyService) Chat(ctx context.Context, message, sessionContext string) (string, error) {
	if svc.Err != nil {
		return "", svc.Err
	}
	return svc.ChatResponse, nil
}

func (svc *DummyService) GenerateChallenge(ctx context.Context, topic, resourceContent string) (string, error) {
	if svc.Err != nil {
		return "", svc.Err
	}
	return svc.ChallengeResponse, nil
}
