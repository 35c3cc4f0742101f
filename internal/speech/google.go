package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultSTTEndpoint = "https://speech.googleapis.com/v1/speech:recognize"
	defaultTTSEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"
	httpTimeout        = 30 * time.Second

	// WhatsApp voice notes are OGG/Opus at 16 kHz.
	audioEncoding   = "OGG_OPUS"
	sampleRateHertz = 16000
)

// GoogleClient calls the Cloud Speech REST APIs with an API key.
type GoogleClient struct {
	apiKey      string
	sttEndpoint string
	ttsEndpoint string
	httpClient  *http.Client
}

func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		apiKey:      apiKey,
		sttEndpoint: defaultSTTEndpoint,
		ttsEndpoint: defaultTTSEndpoint,
		httpClient:  &http.Client{Timeout: httpTimeout},
	}
}

// SetEndpoints overrides the API endpoints (useful for testing).
func (c *GoogleClient) SetEndpoints(stt, tts string) {
	if stt != "" {
		c.sttEndpoint = stt
	}
	if tts != "" {
		c.ttsEndpoint = tts
	}
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	Model                      string `json:"model"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Transcribe recognizes one voice note. An empty transcript (silence or
// unintelligible audio) is not an error.
func (c *GoogleClient) Transcribe(ctx context.Context, audio []byte, languageCode string) (Transcript, error) {
	req := recognizeRequest{
		Config: recognizeConfig{
			Encoding:                   audioEncoding,
			SampleRateHertz:            sampleRateHertz,
			LanguageCode:               languageCode,
			EnableAutomaticPunctuation: true,
			Model:                      "default",
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	}

	var resp recognizeResponse
	if err := c.post(ctx, c.sttEndpoint, req, &resp); err != nil {
		return Transcript{}, err
	}
	if resp.Error != nil {
		return Transcript{}, fmt.Errorf("speech: recognize error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return Transcript{Language: languageCode}, nil
	}

	alt := resp.Results[0].Alternatives[0]
	return Transcript{Text: alt.Transcript, Confidence: alt.Confidence, Language: languageCode}, nil
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
		Pitch         float64 `json:"pitch"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string    `json:"audioContent"`
	Error        *apiError `json:"error,omitempty"`
}

// Synthesize renders the reply text as OGG/Opus audio.
func (c *GoogleClient) Synthesize(ctx context.Context, text, languageCode, voiceName string) ([]byte, error) {
	var req synthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode = languageCode
	req.Voice.Name = voiceName
	req.AudioConfig.AudioEncoding = audioEncoding
	req.AudioConfig.SpeakingRate = 1.0
	req.AudioConfig.Pitch = 0.0

	var resp synthesizeResponse
	if err := c.post(ctx, c.ttsEndpoint, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("speech: synthesize error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("speech: decode audio content: %w", err)
	}
	return audio, nil
}

func (c *GoogleClient) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("speech: marshal request: %w", err)
	}

	url := endpoint + "?key=" + c.apiKey
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("speech: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("speech: call api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("speech: read response: %w", err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("speech: decode response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}
