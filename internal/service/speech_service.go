package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/cdc-ai/personaproxy/internal/config"
	"github.com/cdc-ai/personaproxy/internal/domain"
)

const wavDataPrefix = "data:audio/wav;base64,"

// Audio is a synthesized clip ready to be streamed. Size is -1 when unknown.
type Audio struct {
	Body io.ReadCloser
	Size int64
}

// SpeechService proxies text-to-speech requests to a Gradio server.
// Generation is bounded only by the request context; cfg.Timeout applies
// to fetching a generated file.
type SpeechService struct {
	cfg       config.SpeechConfig
	generator *http.Client
	fetcher   *http.Client
}

// NewSpeechService creates a new speech service
func NewSpeechService(cfg config.SpeechConfig) *SpeechService {
	return &SpeechService{
		cfg:       cfg,
		generator: &http.Client{},
		fetcher:   &http.Client{Timeout: cfg.Timeout},
	}
}

// SynthesisParamsFor derives generation parameters from the number of
// characters in text. Longer text gets a slightly faster speed factor, capped at 1.0.
func SynthesisParamsFor(text string) domain.SynthesisParams {
	estimated := int(float64(utf8.RuneCountInString(text)) * 3.5)
	if estimated < 100 {
		estimated = 100
	}
	normalized := math.Min(float64(estimated)/1200, 1)

	return domain.SynthesisParams{
		TextInput:     text,
		MaxNewTokens:  estimated,
		CFGScale:      3.8,
		Temperature:   1.3,
		TopP:          0.95,
		CFGFilterTopK: 30,
		SpeedFactor:   0.91 + 0.09*math.Pow(normalized, 0.6),
	}
}

// Synthesize generates audio for text. The caller must close Audio.Body.
func (s *SpeechService) Synthesize(ctx context.Context, text string) (*Audio, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: missing text", domain.ErrInvalidRequest)
	}

	payload, err := json.Marshal(map[string]any{
		"data": []any{SynthesisParamsFor(text)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrUpstream, err)
	}

	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/run" + s.cfg.APIName
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.generator.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: synthesis request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: synthesis returned status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var result struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode synthesis response: %v", domain.ErrUpstream, err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: synthesis returned no data", domain.ErrUpstream)
	}

	return s.audioFrom(ctx, result.Data[0])
}

// audioFrom handles the two result shapes: an inline base64 WAV data URL,
// or a file object whose url must be fetched
func (s *SpeechService) audioFrom(ctx context.Context, raw json.RawMessage) (*Audio, error) {
	var inline string
	if err := json.Unmarshal(raw, &inline); err == nil {
		if !strings.HasPrefix(inline, wavDataPrefix) {
			return nil, fmt.Errorf("%w: unexpected synthesis format", domain.ErrUpstream)
		}
		audio, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(inline, wavDataPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w: decode audio: %v", domain.ErrUpstream, err)
		}
		return &Audio{Body: io.NopCloser(bytes.NewReader(audio)), Size: int64(len(audio))}, nil
	}

	var file struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &file); err != nil || file.URL == "" {
		return nil, fmt.Errorf("%w: unexpected synthesis format", domain.ErrUpstream)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build audio request: %v", domain.ErrUpstream, err)
	}

	resp, err := s.fetcher.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch audio: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: audio fetch returned status %d", domain.ErrUpstream, resp.StatusCode)
	}

	return &Audio{Body: resp.Body, Size: resp.ContentLength}, nil
}
