package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"server/internal/infra"
	"server/internal/sqlinline"
)

// ProviderVideo identifies the row holding the configured video generation
// provider's credentials in integration_tokens.
const ProviderVideo = "video"

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// APIKey returns the stored video provider API key, or "" if none has been
// configured. An unconfigured key is not an error: the provider adapter
// falls back to synthetic responses.
func (s *Store) APIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderVideo)
}

// APIID returns the auxiliary account/application id some providers require
// alongside the key, stored in the same row's properties.
func (s *Store) APIID(ctx context.Context) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationTokenWithProperties, ProviderVideo)
	var token string
	var rawProps []byte
	if err := row.Scan(&token, &rawProps); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	if len(rawProps) == 0 {
		return "", nil
	}
	var props map[string]any
	if err := json.Unmarshal(rawProps, &props); err != nil {
		return "", err
	}
	apiID, _ := props["api_id"].(string)
	return apiID, nil
}

func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// SetVideoProviderCredentials stores the API key (and optional api id) used
// to authenticate against the configured video generation provider.
func (s *Store) SetVideoProviderCredentials(ctx context.Context, apiKey, apiID string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("provider api key is required")
	}
	props := map[string]any{}
	if apiID = strings.TrimSpace(apiID); apiID != "" {
		props["api_id"] = apiID
	}
	return s.upsert(ctx, ProviderVideo, apiKey, props)
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
