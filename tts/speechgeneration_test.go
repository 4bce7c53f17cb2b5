package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAISpeechGenerator(t *testing.T) {
	mp3 := []byte{0xff, 0xfb, 0x90, 0x64, 0x00}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model          string `json:"model"`
			Input          string `json:"input"`
			Voice          string `json:"voice"`
			ResponseFormat string `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Input != "How do you handle conflicts within a team?" {
			t.Errorf("input = %q", req.Input)
		}
		if req.Voice != "nova" || req.ResponseFormat != "mp3" {
			t.Errorf("voice = %q, format = %q", req.Voice, req.ResponseFormat)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(mp3)
	}))
	defer server.Close()

	gen := NewOpenAISpeechGenerator("test-key", server.URL, "nova")

	var buf bytes.Buffer
	err := gen.TextToSpeech(
		context.Background(),
		"How do you handle conflicts within a team?",
		&buf,
	)
	if err != nil {
		t.Fatalf("TextToSpeech() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), mp3) {
		t.Errorf("audio = %x, want %x", buf.Bytes(), mp3)
	}
}

func TestOpenAISpeechGeneratorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	gen := NewOpenAISpeechGenerator("bad", server.URL, "")
	if err := gen.TextToSpeech(context.Background(), "hi", &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestElevenLabsDefaultVoice(t *testing.T) {
	gen := NewElevenLabsSpeechGenerator("key", "")
	if gen.voice != DefaultElevenLabsVoice {
		t.Errorf("voice = %q", gen.voice)
	}
}
