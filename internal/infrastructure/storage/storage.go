package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SignedURLService mints temporary signed URLs for photo storage paths. It is
// invoked only after the visibility policy has decided a photo may be shown
// unobscured.
type SignedURLService interface {
	CreateTemporarySignedURL(ctx context.Context, path string) (string, error)
}

type SupabaseStorageService struct {
	baseURL    string
	bucket     string
	serviceKey string
	ttl        time.Duration
	httpClient *http.Client
}

func NewSupabaseStorageService(baseURL, bucket, serviceKey string, ttl time.Duration) *SupabaseStorageService {
	return &SupabaseStorageService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		serviceKey: serviceKey,
		ttl:        ttl,
		httpClient: http.DefaultClient,
	}
}

func (s *SupabaseStorageService) CreateTemporarySignedURL(ctx context.Context, objectPath string) (string, error) {
	signURL := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", s.baseURL, s.bucket, strings.TrimLeft(objectPath, "/"))

	payload := map[string]int{"expiresIn": int(s.ttl.Seconds())}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal signed url payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build signed url request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("sign url: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode signed url response: %w", err)
	}
	if parsed.SignedURL == "" {
		return "", fmt.Errorf("sign url: empty signed url in response")
	}

	return s.baseURL + "/storage/v1" + parsed.SignedURL, nil
}
