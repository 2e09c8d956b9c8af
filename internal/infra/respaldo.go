package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
)

// RespaldoClient pushes full-state snapshots to the remote backup server.
// The server is an external HTTP service; callers wrap every Enviar in the
// circuit breaker so an extended outage fast-fails instead of piling up
// 30-second timeouts.
type RespaldoClient struct {
	url        string
	httpClient *http.Client
}

func NewRespaldoClient(url string) *RespaldoClient {
	return &RespaldoClient{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enviar POSTs the snapshot as JSON and expects a 2xx response.
func (c *RespaldoClient) Enviar(ctx context.Context, snap *dto.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("respaldo: marshal snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("respaldo: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("respaldo: servidor no disponible: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("respaldo: servidor respondió %d", resp.StatusCode)
	}
	return nil
}
