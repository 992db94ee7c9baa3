package services

import (
	"context"
	"errors"
	"testing"
)

// stubProvider is a TTSService backed by a function, for chain tests.
type stubProvider struct {
	name string
	fn   func(ctx context.Context, text, voice string) (*TTSResponse, error)
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error) {
	return s.fn(ctx, text, voice)
}

func okProvider(name string, audio []byte) *stubProvider {
	return &stubProvider{
		name: name,
		fn: func(ctx context.Context, text, voice string) (*TTSResponse, error) {
			return &TTSResponse{AudioData: audio, ContentType: "audio/wav", Format: "wav"}, nil
		},
	}
}

func failProvider(name string) *stubProvider {
	return &stubProvider{
		name: name,
		fn: func(ctx context.Context, text, voice string) (*TTSResponse, error) {
			return nil, errors.New("provider down")
		},
	}
}

func TestChainFirstProviderWins(t *testing.T) {
	chain := NewChain(okProvider("first", []byte("aaa")), okProvider("second", []byte("bbb")))

	result := chain.Generate(context.Background(), "hello", "female")

	if result.Engine != "first" {
		t.Errorf("expected engine first, got %s", result.Engine)
	}
	if string(result.AudioData) != "aaa" {
		t.Errorf("expected first provider's audio, got %q", result.AudioData)
	}
	if result.UsedFallback {
		t.Error("first provider success should not be marked as fallback")
	}
	if result.VoiceUsed != "female" {
		t.Errorf("expected voice female, got %s", result.VoiceUsed)
	}
}

func TestChainFallsThroughOnFailure(t *testing.T) {
	chain := NewChain(failProvider("primary"), okProvider("secondary", []byte("bbb")))

	result := chain.Generate(context.Background(), "hello", "male")

	if result.Engine != "secondary" {
		t.Errorf("expected engine secondary, got %s", result.Engine)
	}
	if !result.UsedFallback {
		t.Error("non-first provider success should be marked as fallback")
	}
}

func TestChainSecondaryHostCountsAsFallback(t *testing.T) {
	// A provider that fronts two hosts reports the one that answered.
	secondary := &stubProvider{
		name: "openai",
		fn: func(ctx context.Context, text, voice string) (*TTSResponse, error) {
			return &TTSResponse{AudioData: []byte("x"), ContentType: "audio/wav", Format: "wav", Engine: "local"}, nil
		},
	}
	chain := NewChain(secondary)

	result := chain.Generate(context.Background(), "hello", "female")

	if result.Engine != "local" {
		t.Errorf("expected the answering host's engine, got %s", result.Engine)
	}
	if !result.UsedFallback {
		t.Error("audio from a provider's secondary host must be marked as fallback")
	}
}

func TestChainExhaustedServesPlaceholder(t *testing.T) {
	chain := NewChain(failProvider("a"), failProvider("b"))

	result := chain.Generate(context.Background(), "hello", "female")

	if result == nil {
		t.Fatal("chain must never return nil")
	}
	if result.Engine != "fallback" {
		t.Errorf("expected engine fallback, got %s", result.Engine)
	}
	if !result.UsedFallback {
		t.Error("placeholder result must be marked as fallback")
	}
	if result.ContentType != "audio/mpeg" {
		t.Errorf("placeholder content type should be audio/mpeg, got %s", result.ContentType)
	}
	if len(result.AudioData) == 0 {
		t.Error("placeholder audio must not be empty")
	}
}

func TestChainEmpty(t *testing.T) {
	chain := NewChain()

	result := chain.Generate(context.Background(), "hello", "female")
	if result.Engine != "fallback" {
		t.Errorf("empty chain should serve placeholder, got engine %s", result.Engine)
	}
}

func TestPlaceholderAudioIsCopied(t *testing.T) {
	a := PlaceholderAudio()
	a[0] = 0x00

	b := PlaceholderAudio()
	if b[0] != 0xFF {
		t.Error("mutating a returned placeholder must not affect later calls")
	}
}
