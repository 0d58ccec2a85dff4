package usecase

import "context"

type EncoderInfra interface {
	Encode(ctx context.Context, text string) (*EncodedQuery, error)
}

type AnalyticsInfra interface {
	PublishSessionEvent(ctx context.Context, event *SessionEvent) error
}
