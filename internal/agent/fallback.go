package agent

import (
	"context"
	"fmt"
	"log"
)

// FallbackProvider tries the primary provider first, then the alternatives
// in order if the primary returns an error. Fallbacks run on their own
// default models since the caller's model name belongs to the primary.
type FallbackProvider struct {
	primary   Provider
	fallbacks []Provider
}

func NewFallbackProvider(primary Provider, fallbacks ...Provider) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallbacks: fallbacks}
}

func (p *FallbackProvider) DefaultModel() string {
	return p.primary.DefaultModel()
}

func (p *FallbackProvider) Chat(ctx context.Context, model string, messages []Message, tools []ToolDefinition) (*Response, error) {
	resp, err := p.primary.Chat(ctx, model, messages, tools)
	if err == nil {
		return resp, nil
	}

	log.Printf("Primary provider failed: %v, trying fallbacks", err)

	lastErr := err
	for i, fb := range p.fallbacks {
		resp, lastErr = fb.Chat(ctx, "", messages, tools)
		if lastErr == nil {
			log.Printf("Fallback #%d (%s) succeeded", i+1, fb.DefaultModel())
			return resp, nil
		}
		log.Printf("Fallback #%d failed: %v", i+1, lastErr)
	}

	return nil, fmt.Errorf("all providers failed, last error: %w", lastErr)
}
