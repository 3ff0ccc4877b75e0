package maizey

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"maizey-chat/services/chat-api/internal/config"
	"maizey-chat/services/chat-api/internal/domain/chat"
	"maizey-chat/services/chat-api/internal/utils/httpclients"
	"maizey-chat/services/chat-api/internal/utils/platformerrors"
)

// Client wraps the Maizey conversational API. Both endpoints live under the
// configured project's base path and require bearer authentication.
type Client struct {
	client    *resty.Client
	baseURL   string
	projectPK string
	log       zerolog.Logger
}

var _ chat.MaizeyGateway = (*Client)(nil)

// NewClient validates the Maizey configuration and builds the client.
// Missing credentials are a construction-time failure: no request is ever
// attempted without them.
func NewClient(cfg *config.Config, log zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.MaizeyAPIToken) == "" {
		return nil, fmt.Errorf("MAIZEY_API_TOKEN is required")
	}
	if strings.TrimSpace(cfg.MaizeyProjectPK) == "" {
		return nil, fmt.Errorf("MAIZEY_PROJECT_PK is required")
	}
	if strings.TrimSpace(cfg.MaizeyBaseURL) == "" {
		return nil, fmt.Errorf("MAIZEY_API_BASE_URL is required")
	}

	client := httpclients.NewClient("maizey").
		SetTimeout(cfg.MaizeyTimeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.MaizeyAPIToken)).
		SetHeader("Content-Type", "application/json")

	return &Client{
		client:    client,
		baseURL:   strings.TrimRight(cfg.MaizeyBaseURL, "/"),
		projectPK: cfg.MaizeyProjectPK,
		log:       log.With().Str("component", "maizey-client").Logger(),
	}, nil
}

// conversationPayload uses pointers for the fields Maizey must supply so a
// missing field is distinguishable from a zero value.
type conversationPayload struct {
	PK     *int64 `json:"pk"`
	Title  string `json:"title"`
	UserID *int64 `json:"user_id"`
}

type messagePayload struct {
	ID       *int64        `json:"id"`
	Query    string        `json:"query"`
	Response string        `json:"response"`
	Sources  []chat.Source `json:"sources"`
}

// CreateConversation creates a new conversation scoped to the configured project.
func (c *Client) CreateConversation(ctx context.Context) (*chat.RemoteConversation, error) {
	url := fmt.Sprintf("%s/projects/%s/conversation/", c.baseURL, c.projectPK)

	resp, err := c.client.R().
		SetContext(ctx).
		Post(url)
	if err != nil {
		return nil, c.upstreamError(ctx, "maizey create conversation failed", err, "maizey-create-transport")
	}
	if resp.IsError() {
		return nil, c.statusError(ctx, resp, "maizey-create-status")
	}

	var payload conversationPayload
	if err := json.Unmarshal(resp.Bytes(), &payload); err != nil {
		return nil, c.upstreamError(ctx, "maizey returned malformed conversation body", err, "maizey-create-decode")
	}
	if payload.PK == nil || payload.UserID == nil {
		return nil, c.upstreamError(ctx, "maizey conversation response missing pk or user_id", nil, "maizey-create-shape")
	}

	return &chat.RemoteConversation{
		PK:     *payload.PK,
		Title:  payload.Title,
		UserID: *payload.UserID,
	}, nil
}

// SendMessage posts query to the given remote conversation and returns the
// parsed answer alongside the verbatim response body.
func (c *Client) SendMessage(ctx context.Context, conversationPK int64, query string) (*chat.RemoteMessage, error) {
	url := fmt.Sprintf("%s/projects/%s/conversation/%d/messages/", c.baseURL, c.projectPK, conversationPK)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"query": query}).
		Post(url)
	if err != nil {
		return nil, c.upstreamError(ctx, "maizey send message failed", err, "maizey-send-transport")
	}
	if resp.IsError() {
		return nil, c.statusError(ctx, resp, "maizey-send-status")
	}

	raw := resp.Bytes()
	var payload messagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, c.upstreamError(ctx, "maizey returned malformed message body", err, "maizey-send-decode")
	}
	if payload.ID == nil {
		return nil, c.upstreamError(ctx, "maizey message response missing id", nil, "maizey-send-shape")
	}

	return &chat.RemoteMessage{
		ID:       *payload.ID,
		Query:    payload.Query,
		Response: payload.Response,
		Sources:  payload.Sources,
		Raw:      json.RawMessage(append([]byte(nil), raw...)),
	}, nil
}

func (c *Client) upstreamError(ctx context.Context, message string, cause error, code string) error {
	c.log.Warn().Err(cause).Msg(message)
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstream, message, cause, code)
}

func (c *Client) statusError(ctx context.Context, resp *resty.Response, code string) error {
	message := fmt.Sprintf("maizey returned status %d", resp.StatusCode())
	c.log.Warn().Int("status", resp.StatusCode()).Msg(message)
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstream, message, nil, code)
}
