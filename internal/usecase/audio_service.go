package usecase

import (
	"context"
	"fmt"
	"strings"
)

// maxNarrationLength caps the text sent to the speech provider.
const maxNarrationLength = 4000

// AudioService turns analysis narratives into audio via the speech provider.
type AudioService struct {
	speech SpeechProvider
}

func NewAudioService(speech SpeechProvider) *AudioService {
	return &AudioService{speech: speech}
}

func (s *AudioService) Generate(ctx context.Context, text string) (SpeechClip, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AudioService.Generate")
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return SpeechClip{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if len(text) > maxNarrationLength {
		return SpeechClip{}, fmt.Errorf("%w: text exceeds %d characters", ErrInvalidInput, maxNarrationLength)
	}
	if s.speech == nil {
		return SpeechClip{}, fmt.Errorf("%w: speech provider is not configured", ErrDependencyUnavailable)
	}

	clip, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		return SpeechClip{}, fmt.Errorf("%w: synthesize speech: %v", ErrDependencyUnavailable, err)
	}
	if clip.AudioBase64 == "" {
		return SpeechClip{}, fmt.Errorf("%w: speech provider returned empty audio", ErrDependencyUnavailable)
	}
	if clip.ContentType == "" {
		clip.ContentType = "audio/mpeg"
	}
	return clip, nil
}
