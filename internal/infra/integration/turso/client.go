package turso

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Turso platform API, which hosts the per-tenant
// contact databases.
type Client struct {
	baseURL string
	orgSlug string
	apiKey  string
	group   string
	http    *http.Client
}

func NewClient(apiKey, orgSlug, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.turso.tech"
	}
	return &Client{
		baseURL: baseURL,
		orgSlug: orgSlug,
		apiKey:  apiKey,
		group:   "default",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateDatabase provisions a new isolated database and returns its hostname.
func (c *Client) CreateDatabase(ctx context.Context, name string) (*Database, error) {
	url := fmt.Sprintf("%s/v1/organizations/%s/databases", c.baseURL, c.orgSlug)

	payload := createDatabaseRequest{Name: name, Group: c.group}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling create database request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("turso request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("turso create database failed (status %d): %s", resp.StatusCode, string(body))
	}

	var response createDatabaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding turso response: %w", err)
	}
	return &response.Database, nil
}

// ListDatabaseNames returns the names of every database visible to the
// platform account. The provisioner uses it to tell propagation delay apart
// from out-of-band deletion.
func (c *Client) ListDatabaseNames(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/v1/organizations/%s/databases", c.baseURL, c.orgSlug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("turso request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("turso list databases failed (status %d): %s", resp.StatusCode, string(body))
	}

	var response listDatabasesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding turso response: %w", err)
	}

	names := make([]string, 0, len(response.Databases))
	for _, db := range response.Databases {
		names = append(names, db.Name)
	}
	return names, nil
}

// CreateToken mints an auth token for one database.
func (c *Client) CreateToken(ctx context.Context, dbName string) (string, error) {
	url := fmt.Sprintf("%s/v1/organizations/%s/databases/%s/auth/tokens", c.baseURL, c.orgSlug, dbName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("turso request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("turso create token failed (status %d): %s", resp.StatusCode, string(body))
	}

	var response createTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decoding turso response: %w", err)
	}
	return response.JWT, nil
}

// DeleteDatabase removes a tenant database. Used by the stalled-organization
// cleanup and explicit tenant teardown.
func (c *Client) DeleteDatabase(ctx context.Context, dbName string) error {
	url := fmt.Sprintf("%s/v1/organizations/%s/databases/%s", c.baseURL, c.orgSlug, dbName)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("turso request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("turso delete database failed (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "AgencyDeskCRM/1.0")
}
