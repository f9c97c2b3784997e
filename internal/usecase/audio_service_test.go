package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeSpeechProvider struct {
	clip SpeechClip
	err  error
}

func (p *fakeSpeechProvider) Synthesize(context.Context, string) (SpeechClip, error) {
	return p.clip, p.err
}

func TestAudioService_Generate(t *testing.T) {
	svc := NewAudioService(&fakeSpeechProvider{clip: SpeechClip{AudioBase64: "aGVsbG8="}})

	clip, err := svc.Generate(context.Background(), "Arsenal are favorites tonight.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if clip.ContentType != "audio/mpeg" {
		t.Fatalf("expected default content type, got %q", clip.ContentType)
	}
}

func TestAudioService_GenerateValidation(t *testing.T) {
	svc := NewAudioService(&fakeSpeechProvider{clip: SpeechClip{AudioBase64: "aGVsbG8="}})

	if _, err := svc.Generate(context.Background(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank text, got %v", err)
	}
	if _, err := svc.Generate(context.Background(), strings.Repeat("a", maxNarrationLength+1)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized text, got %v", err)
	}
}

func TestAudioService_GenerateProviderFailure(t *testing.T) {
	svc := NewAudioService(&fakeSpeechProvider{err: errors.New("tts down")})

	if _, err := svc.Generate(context.Background(), "text"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
