package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cdc-ai/personaproxy/internal/config"
	"github.com/cdc-ai/personaproxy/internal/domain"
)

func TestSynthesisParamsFor(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxTokens int
		speed     float64
	}{
		{"short text floors at 100 tokens", "hi", 100, 0.91 + 0.09*math.Pow(100.0/1200, 0.6)},
		{"mid length", strings.Repeat("a", 100), 350, 0.91 + 0.09*math.Pow(350.0/1200, 0.6)},
		{"long text caps speed", strings.Repeat("a", 1000), 3500, 1.0},
		{"counts characters not bytes", strings.Repeat("é", 100), 350, 0.91 + 0.09*math.Pow(350.0/1200, 0.6)},
		{"multibyte short text", "こんにちは", 100, 0.91 + 0.09*math.Pow(100.0/1200, 0.6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SynthesisParamsFor(tt.text)
			if p.MaxNewTokens != tt.maxTokens {
				t.Errorf("MaxNewTokens = %d, want %d", p.MaxNewTokens, tt.maxTokens)
			}
			if math.Abs(p.SpeedFactor-tt.speed) > 1e-9 {
				t.Errorf("SpeedFactor = %v, want %v", p.SpeedFactor, tt.speed)
			}
			if p.CFGScale != 3.8 || p.Temperature != 1.3 || p.TopP != 0.95 || p.CFGFilterTopK != 30 {
				t.Errorf("fixed parameters changed: %+v", p)
			}
		})
	}
}

func TestSynthesizeInlineAudio(t *testing.T) {
	wav := []byte("RIFF....WAVEfmt ")
	var got struct {
		Data []domain.SynthesisParams `json:"data"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/run/generate_audio" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{"data:audio/wav;base64," + base64.StdEncoding.EncodeToString(wav)},
		})
	}))
	defer server.Close()

	svc := NewSpeechService(config.SpeechConfig{BaseURL: server.URL, APIName: "/generate_audio", Timeout: time.Second})
	audio, err := svc.Synthesize(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	defer audio.Body.Close()

	body, _ := io.ReadAll(audio.Body)
	if string(body) != string(wav) || audio.Size != int64(len(wav)) {
		t.Errorf("audio = %q (size %d), want %q", body, audio.Size, wav)
	}
	if len(got.Data) != 1 || got.Data[0].TextInput != "hello there" || got.Data[0].AudioPromptInput != nil {
		t.Errorf("request payload = %+v", got)
	}
}

func TestSynthesizeRemoteAudio(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/file/out.wav", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote-wav"))
	})
	mux.HandleFunc("/run/generate_audio", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{map[string]any{"url": server.URL + "/file/out.wav"}},
		})
	})

	svc := NewSpeechService(config.SpeechConfig{BaseURL: server.URL + "/", APIName: "/generate_audio", Timeout: time.Second})
	audio, err := svc.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	defer audio.Body.Close()

	body, _ := io.ReadAll(audio.Body)
	if string(body) != "remote-wav" {
		t.Errorf("audio = %q, want remote-wav", body)
	}
}

func TestSynthesizeGenerationOutlastsFetchTimeout(t *testing.T) {
	wav := []byte("slow-wav")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{"data:audio/wav;base64," + base64.StdEncoding.EncodeToString(wav)},
		})
	}))
	defer server.Close()

	svc := NewSpeechService(config.SpeechConfig{BaseURL: server.URL, APIName: "/generate_audio", Timeout: 100 * time.Millisecond})
	audio, err := svc.Synthesize(context.Background(), "a long passage")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	defer audio.Body.Close()

	body, _ := io.ReadAll(audio.Body)
	if string(body) != string(wav) {
		t.Errorf("audio = %q, want %q", body, wav)
	}
}

func TestSynthesizeRemoteAudioTimeout(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/file/out.wav", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte("late-wav"))
	})
	mux.HandleFunc("/run/generate_audio", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{map[string]any{"url": server.URL + "/file/out.wav"}},
		})
	})

	svc := NewSpeechService(config.SpeechConfig{BaseURL: server.URL, APIName: "/generate_audio", Timeout: 100 * time.Millisecond})
	_, err := svc.Synthesize(context.Background(), "hello")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("Synthesize() error = %v, want ErrUpstream", err)
	}
}

func TestSynthesizeFailures(t *testing.T) {
	tests := []struct {
		name     string
		response string
		status   int
	}{
		{"unexpected string", `{"data":["data:audio/mp3;base64,AAAA"]}`, http.StatusOK},
		{"bad base64", `{"data":["data:audio/wav;base64,!!!"]}`, http.StatusOK},
		{"object without url", `{"data":[{"path":"/tmp/x.wav"}]}`, http.StatusOK},
		{"empty data", `{"data":[]}`, http.StatusOK},
		{"number", `{"data":[42]}`, http.StatusOK},
		{"server error", `{"error":"boom"}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.response))
			}))
			defer server.Close()

			svc := NewSpeechService(config.SpeechConfig{BaseURL: server.URL, APIName: "/generate_audio", Timeout: time.Second})
			_, err := svc.Synthesize(context.Background(), "hello")
			if !errors.Is(err, domain.ErrUpstream) {
				t.Errorf("Synthesize() error = %v, want ErrUpstream", err)
			}
		})
	}
}

func TestSynthesizeMissingText(t *testing.T) {
	svc := NewSpeechService(config.SpeechConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := svc.Synthesize(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Synthesize() error = %v, want ErrInvalidRequest", err)
	}
}
