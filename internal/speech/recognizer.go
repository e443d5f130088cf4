package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrNoSpeech is returned when the recognizer heard nothing it could transcribe.
var ErrNoSpeech = errors.New("no speech recognized")

// AudioSource captures one utterance as 16 kHz FLAC.
type AudioSource interface {
	Capture(ctx context.Context) ([]byte, error)
}

// FileSource reads a pre-recorded FLAC file.
type FileSource struct {
	Path string
}

func (f FileSource) Capture(_ context.Context) ([]byte, error) {
	return os.ReadFile(f.Path)
}

type alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type result struct {
	Alternative []alternative `json:"alternative"`
	Final       bool          `json:"final"`
}

type response struct {
	Result []result `json:"result"`
}

// GoogleRecognizer sends captured audio to the Google speech recognition endpoint.
type GoogleRecognizer struct {
	source   AudioSource
	endpoint string
	key      string
	lang     string
	http     *http.Client
}

// NewGoogleRecognizer builds a recognizer for lang, e.g. "uz-UZ".
func NewGoogleRecognizer(source AudioSource, endpoint, key, lang string) *GoogleRecognizer {
	return &GoogleRecognizer{
		source:   source,
		endpoint: endpoint,
		key:      key,
		lang:     lang,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Recognize captures one utterance and returns its best transcript.
func (g *GoogleRecognizer) Recognize(ctx context.Context) (string, error) {
	audio, err := g.source.Capture(ctx)
	if err != nil {
		return "", fmt.Errorf("capture audio: %w", err)
	}

	q := url.Values{}
	q.Set("client", "chromium")
	q.Set("lang", g.lang)
	q.Set("key", g.key)
	q.Set("pFilter", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"?"+q.Encode(), bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "audio/x-flac; rate=16000")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech endpoint returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return parseTranscript(string(body))
}

// parseTranscript reads the newline-delimited JSON reply; the first non-empty result wins.
func parseTranscript(body string) (string, error) {
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var r response
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return "", fmt.Errorf("decode speech response: %w", err)
		}
		if len(r.Result) == 0 {
			continue
		}
		if len(r.Result[0].Alternative) == 0 {
			return "", ErrNoSpeech
		}
		return r.Result[0].Alternative[0].Transcript, nil
	}
	return "", ErrNoSpeech
}
