package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fala com o serviço interno de conexão (connect-service), que guarda
// e renova os tokens OAuth de cada CRM. A renovação em si não acontece aqui.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// GetAccessToken resolve a credencial vigente de (empresa, provider).
// Qualquer erro aqui é falha de setup: o batch inteiro aborta antes de
// processar qualquer registro.
func (c *Client) GetAccessToken(ctx context.Context, companyID, provider string) (*AccessToken, error) {
	url := fmt.Sprintf("%s/companies/%s/tokens/%s", c.baseURL, companyID, provider)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro request connect-service: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("connect-service recusou (%d): %s", resp.StatusCode, string(body))
	}

	var result tokenResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	if result.AccessToken == "" {
		return nil, fmt.Errorf("token vazio para empresa %s provider %s", companyID, provider)
	}

	return &AccessToken{
		Token:       result.AccessToken,
		InstanceURL: result.InstanceURL,
	}, nil
}
