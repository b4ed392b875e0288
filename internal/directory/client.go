package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rostersync/internal/roster"
	"rostersync/pkg/platform/sentinel"
)

const statusSuccess = "success"

// Client is a thin, retryable wrapper around the chat platform's subscriber
// HTTP surface. All four operations go through one authenticated request
// primitive; business decisions about which failures matter stay with the
// pipeline.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a platform client. baseURL is the account's API root;
// token is the bearer token issued for it.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FindByCPF looks a subscriber up by the CPF custom field. Returns the
// subscriber ID, or sentinel.ErrNotFound when the platform has no match,
// including when it answers with a rejection, which the platform uses for
// unknown field values. Transport failures propagate.
func (c *Client) FindByCPF(ctx context.Context, cpf string) (json.Number, error) {
	query := url.Values{}
	query.Set("field_id", strconv.Itoa(fieldIDCPF))
	query.Set("field_value", cpf)

	env, err := c.doRetry(ctx, http.MethodGet, "fb/subscriber/findByCustomField", nil, query)
	if err != nil {
		var de *Error
		if errors.As(err, &de) && de.Category == CategoryRejection {
			return "", sentinel.ErrNotFound
		}
		return "", err
	}
	if env.Status != statusSuccess {
		return "", sentinel.ErrNotFound
	}

	var matches []Subscriber
	if err := json.Unmarshal(env.Data, &matches); err != nil {
		return "", NewError(CategoryBadData, "findByCustomField", "decode result list", err)
	}
	if len(matches) == 0 {
		return "", sentinel.ErrNotFound
	}
	return matches[0].ID, nil
}

type createRequest struct {
	FirstName     string `json:"first_name"`
	Phone         string `json:"phone"`
	WhatsAppPhone string `json:"whatsapp_phone"`
	Email         string `json:"email"`
	HasOptInSMS   bool   `json:"has_opt_in_sms"`
	HasOptInEmail bool   `json:"has_opt_in_email"`
	ConsentPhrase string `json:"consent_phrase"`
}

// CreateSubscriber registers a new subscriber from a CSV contact. The raw
// creation payload is returned alongside the parsed record so the caller can
// ledger it verbatim. Both transport and rejection failures propagate; there
// is no safe retry for a creation.
func (c *Client) CreateSubscriber(ctx context.Context, contact roster.Contact) (Subscriber, json.RawMessage, error) {
	req := createRequest{
		FirstName:     contact.Name,
		Phone:         contact.Phone,
		WhatsAppPhone: contact.WhatsAppPhone(),
		Email:         contact.Email,
		HasOptInSMS:   true,
		HasOptInEmail: true,
		ConsentPhrase: "ok",
	}

	env, err := c.do(ctx, http.MethodPost, "fb/subscriber/createSubscriber", req, nil)
	if err != nil {
		return Subscriber{}, nil, err
	}
	if env.Status != statusSuccess {
		return Subscriber{}, nil, NewError(CategoryRejection, "createSubscriber",
			fmt.Sprintf("platform answered status %q", env.Status), nil)
	}

	var sub Subscriber
	if err := json.Unmarshal(env.Data, &sub); err != nil {
		return Subscriber{}, nil, NewError(CategoryBadData, "createSubscriber", "decode subscriber", err)
	}
	if sub.ID.String() == "" {
		return Subscriber{}, nil, NewError(CategoryBadData, "createSubscriber", "response missing subscriber id", nil)
	}
	return sub, env.Data, nil
}

type tagRequest struct {
	SubscriberID json.Number `json:"subscriber_id"`
	TagName      string      `json:"tag_name"`
}

// AddTag attaches a named tag to a subscriber. Tagging is idempotent on the
// platform side, so the call is retried on transport failures.
func (c *Client) AddTag(ctx context.Context, subscriberID json.Number, tag string) error {
	env, err := c.doRetry(ctx, http.MethodPost, "fb/subscriber/addTagByName",
		tagRequest{SubscriberID: subscriberID, TagName: tag}, nil)
	if err != nil {
		return err
	}
	if env.Status != statusSuccess {
		return NewError(CategoryRejection, "addTagByName",
			fmt.Sprintf("platform answered status %q", env.Status), nil)
	}
	return nil
}

type fieldsRequest struct {
	SubscriberID json.Number   `json:"subscriber_id"`
	Fields       []customField `json:"fields"`
}

// SetCustomFields writes the identity custom fields (CPF, company and, when
// present, CRM) in a single call. Field writes are idempotent and retried on
// transport failures.
func (c *Client) SetCustomFields(ctx context.Context, subscriberID json.Number, cpf, company, crm string) error {
	fields := []customField{
		{FieldID: fieldIDCPF, FieldValue: cpf},
		{FieldID: fieldIDCompany, FieldValue: company},
	}
	if crm != "" {
		fields = append(fields, customField{FieldID: fieldIDCRM, FieldValue: crm})
	}

	env, err := c.doRetry(ctx, http.MethodPost, "fb/subscriber/setCustomFields",
		fieldsRequest{SubscriberID: subscriberID, Fields: fields}, nil)
	if err != nil {
		return err
	}
	if env.Status != statusSuccess {
		return NewError(CategoryRejection, "setCustomFields",
			fmt.Sprintf("platform answered status %q", env.Status), nil)
	}
	return nil
}

const (
	maxAttempts  = 3
	retryBackoff = 250 * time.Millisecond
)

// doRetry wraps do with a short retry loop for idempotent operations.
// Only transport-category failures are retried.
func (c *Client) doRetry(ctx context.Context, method, path string, body any, query url.Values) (*envelope, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		env, err := c.do(ctx, method, path, body, query)
		if err == nil {
			return env, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == maxAttempts {
			break
		}
		c.logger.DebugContext(ctx, "retrying platform call", "path", path, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, NewError(CategoryTransport, path, "cancelled while retrying", ctx.Err())
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}

// do performs one authenticated JSON request and decodes the platform's
// response envelope.
func (c *Client) do(ctx context.Context, method, path string, body any, query url.Values) (*envelope, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, NewError(CategoryBadData, path, "encode request", err)
		}
		reqBody = bytes.NewReader(data)
	}

	endpoint := c.baseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, NewError(CategoryTransport, path, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, NewError(CategoryTransport, path, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(CategoryTransport, path, "read response", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{
			Category: CategoryRejection,
			Op:       path,
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(data, 200)),
		}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, NewError(CategoryBadData, path, "decode response envelope", err)
	}
	return &env, nil
}

func truncate(data []byte, max int) string {
	if len(data) <= max {
		return string(data)
	}
	return string(data[:max]) + "..."
}
