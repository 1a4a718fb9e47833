package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/whisperapp/whisper/internal/common"
)

const defaultBaseURL = "https://api.deepgram.com"

// DeepgramRecognizer implements Recognizer against the Deepgram
// pre-recorded transcription endpoint.
type DeepgramRecognizer struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewDeepgramRecognizer returns a recognizer using the given API key.
// An empty baseURL selects the public Deepgram endpoint.
func NewDeepgramRecognizer(apiKey string, baseURL string) *DeepgramRecognizer {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &DeepgramRecognizer{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Available reports whether transcription requests can be made at all.
// It does not probe the network; a missing key is the one condition that
// can be detected up front.
func (r *DeepgramRecognizer) Available(ctx context.Context) error {
	if r.apiKey == "" {
		return common.ErrTranscriptionUnavailable
	}
	return nil
}

type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe posts the audio file and returns the final transcript.
// Only the final result is used; interim hypotheses never reach the
// pre-recorded endpoint.
func (r *DeepgramRecognizer) Transcribe(ctx context.Context, localPath string, locale string) (string, error) {
	if err := r.Available(ctx); err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	q := url.Values{}
	q.Set("model", "nova-2")
	q.Set("smart_format", "true")
	if locale != "" {
		q.Set("language", locale)
	}
	endpoint := r.baseURL + "/v1/listen?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, f)
	if err != nil {
		return "", fmt.Errorf("building transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+r.apiKey)
	req.Header.Set("Content-Type", "audio/mp4")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("transcription request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var dr deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return "", fmt.Errorf("decoding transcription response: %w", err)
	}

	if len(dr.Results.Channels) == 0 || len(dr.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("transcription response contained no alternatives")
	}

	transcript := strings.TrimSpace(dr.Results.Channels[0].Alternatives[0].Transcript)
	if transcript == "" {
		return "", fmt.Errorf("transcription produced empty text")
	}

	return transcript, nil
}
