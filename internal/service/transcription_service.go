package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"despesabot/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	saluteOAuthURL     = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	saluteRecognizeURL = "https://smartspeech.sber.ru/rest/v1/speech:recognize"
)

// TranscriptionService converts voice-message audio to text via the
// SaluteSpeech REST API. Transcribe may be called concurrently from
// multiple gateway handlers; the mutex guards the shared access token.
type TranscriptionService struct {
	config       *config.SaluteSpeechConfig
	httpClient   *http.Client
	logger       *zap.Logger
	oauthURL     string
	recognizeURL string

	mu          sync.Mutex
	accessToken string
}

func NewTranscriptionService(cfg *config.SaluteSpeechConfig, logger *zap.Logger) (*TranscriptionService, error) {
	s := &TranscriptionService{
		config:       cfg,
		httpClient:   &http.Client{},
		logger:       logger,
		oauthURL:     saluteOAuthURL,
		recognizeURL: saluteRecognizeURL,
	}

	accessToken, err := s.fetchAccessToken(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}
	s.accessToken = accessToken

	return s, nil
}

// fetchAccessToken obtains an access token from the SaluteSpeech OAuth
// endpoint. The API key is already Base64-encoded per the API docs.
func (s *TranscriptionService) fetchAccessToken(ctx context.Context) (string, error) {
	formData := url.Values{}
	formData.Set("scope", s.config.Scope)

	req, err := http.NewRequestWithContext(ctx, "POST", s.oauthURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create OAuth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", uuid.New().String())
	req.Header.Set("Authorization", "Basic "+s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.logger.Error("OAuth request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
		)
		return "", fmt.Errorf("OAuth failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var oauthResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return "", fmt.Errorf("failed to decode OAuth response: %w", err)
	}
	if oauthResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token in OAuth response")
	}

	return oauthResp.AccessToken, nil
}

func (s *TranscriptionService) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// refreshToken fetches a fresh access token and installs it atomically.
func (s *TranscriptionService) refreshToken(ctx context.Context) (string, error) {
	accessToken, err := s.fetchAccessToken(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.accessToken = accessToken
	s.mu.Unlock()

	return accessToken, nil
}

// Transcribe sends raw audio bytes to the recognize endpoint and returns
// the joined transcript. An empty transcript is returned as-is; the caller
// decides how to fail closed.
func (s *TranscriptionService) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	resp, err := s.recognize(ctx, audio, contentType, s.token())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token expired; refresh once and retry.
		accessToken, tokenErr := s.refreshToken(ctx)
		if tokenErr != nil {
			return "", fmt.Errorf("recognize failed with 401, token refresh also failed: %w", tokenErr)
		}

		resp, err = s.recognize(ctx, audio, contentType, accessToken)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("recognize failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var recognizeResp struct {
		Result []string `json:"result"`
		Status int      `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&recognizeResp); err != nil {
		return "", fmt.Errorf("failed to decode recognize response: %w", err)
	}

	text := strings.TrimSpace(strings.Join(recognizeResp.Result, " "))

	s.logger.Info("Audio transcribed",
		zap.Int("audio_bytes", len(audio)),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}

func (s *TranscriptionService) recognize(ctx context.Context, audio []byte, contentType, accessToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", s.recognizeURL, bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to recognize speech: %w", err)
	}

	return resp, nil
}

// ContentTypeForExtension maps a known audio filename extension to the MIME
// type the recognize endpoint expects.
func ContentTypeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/x-pcm;bit=16;rate=16000"
	case ".ogg", ".opus":
		return "audio/ogg;codecs=opus"
	case ".m4a", ".aac":
		return "audio/aac"
	case ".webm":
		return "audio/webm"
	}
	return "application/octet-stream"
}
