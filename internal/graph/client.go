package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/mti-it/onboarding-service/internal/settings"
)

const (
	defaultBaseURL = "https://graph.microsoft.com/v1.0"
	loginURLFormat = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
	graphScope     = "https://graph.microsoft.com/.default"
)

// Client calls the Microsoft Graph REST API using an app-only
// (client credentials) token.
type Client struct {
	http    *http.Client
	baseURL string
	sender  string
}

// NewClient builds a Graph client from the settings block. The returned
// client refreshes its token automatically.
func NewClient(cfg settings.GraphSettings) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf(loginURLFormat, cfg.TenantID),
		Scopes:       []string{graphScope},
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = 30 * time.Second

	return &Client{
		http:    httpClient,
		baseURL: defaultBaseURL,
		sender:  cfg.Sender,
	}
}

// NewClientWithHTTP is used by tests to point at a fake Graph endpoint.
func NewClientWithHTTP(httpClient *http.Client, baseURL, sender string) *Client {
	return &Client{http: httpClient, baseURL: baseURL, sender: sender}
}

// SendMail sends an HTML message from the configured sender address.
func (c *Client) SendMail(ctx context.Context, to []string, subject, htmlBody string) error {
	recipients := make([]map[string]any, 0, len(to))
	for _, addr := range to {
		recipients = append(recipients, map[string]any{
			"emailAddress": map[string]string{"address": addr},
		})
	}

	payload := map[string]any{
		"message": map[string]any{
			"subject": subject,
			"body": map[string]string{
				"contentType": "HTML",
				"content":     htmlBody,
			},
			"toRecipients": recipients,
		},
		"saveToSentItems": true,
	}

	path := fmt.Sprintf("/users/%s/sendMail", url.PathEscape(c.sender))
	return c.post(ctx, path, payload, http.StatusAccepted)
}

// AddGroupMember adds the directory user identified by memberEmail to the
// distribution group identified by its mail address. Adding an existing
// member is treated as a no-op.
func (c *Client) AddGroupMember(ctx context.Context, groupAddress, memberEmail string) error {
	groupID, err := c.findGroupID(ctx, groupAddress)
	if err != nil {
		return err
	}
	userID, err := c.findUserID(ctx, memberEmail)
	if err != nil {
		return err
	}

	payload := map[string]string{
		"@odata.id": fmt.Sprintf("%s/directoryObjects/%s", c.baseURL, userID),
	}
	err = c.post(ctx, fmt.Sprintf("/groups/%s/members/$ref", groupID), payload, http.StatusNoContent)
	if err != nil && strings.Contains(err.Error(), "already exist") {
		return nil
	}
	return err
}

func (c *Client) findGroupID(ctx context.Context, address string) (string, error) {
	filter := fmt.Sprintf("mail eq '%s'", strings.ReplaceAll(address, "'", "''"))
	id, err := c.findDirectoryObjectID(ctx, "/groups", filter)
	if err != nil {
		return "", fmt.Errorf("resolve group %s: %w", address, err)
	}
	return id, nil
}

func (c *Client) findUserID(ctx context.Context, email string) (string, error) {
	escaped := strings.ReplaceAll(email, "'", "''")
	filter := fmt.Sprintf("mail eq '%s' or userPrincipalName eq '%s'", escaped, escaped)
	id, err := c.findDirectoryObjectID(ctx, "/users", filter)
	if err != nil {
		return "", fmt.Errorf("resolve user %s: %w", email, err)
	}
	return id, nil
}

func (c *Client) findDirectoryObjectID(ctx context.Context, resource, filter string) (string, error) {
	endpoint := fmt.Sprintf("%s%s?$filter=%s&$select=id", c.baseURL, resource, url.QueryEscape(filter))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", graphError(resp)
	}

	var body struct {
		Value []struct {
			ID string `json:"id"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if len(body.Value) == 0 {
		return "", fmt.Errorf("no match for filter %q", filter)
	}
	return body.Value[0].ID, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, wantStatus int) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return graphError(resp)
	}
	return nil
}

func graphError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error.Message != "" {
		return fmt.Errorf("graph %d %s: %s", resp.StatusCode, body.Error.Code, body.Error.Message)
	}
	return fmt.Errorf("graph returned status %d", resp.StatusCode)
}
