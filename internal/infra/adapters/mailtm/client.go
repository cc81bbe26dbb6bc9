package mailtm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-tempmail-bot/internal/config"
	"telegram-tempmail-bot/internal/domain"
	"telegram-tempmail-bot/internal/domain/ports/adapter"
	"telegram-tempmail-bot/internal/infra/metrics"
)

var _ adapter.MailboxProvider = (*Client)(nil)

// hydraMember is the collection key of the provider's pagination
// envelope. The API wraps every list response in it; a response
// without the key is treated as malformed rather than empty.
const hydraMember = "hydra:member"

// Client talks to the mail.tm REST API. One external call per
// operation, no retries.
type Client struct {
	baseURL string
	client  *http.Client
	log     *zerolog.Logger
}

func NewClient(cfg *config.MailTMConfig, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     logger,
	}
}

type domainEntry struct {
	Domain string `json:"domain"`
}

type accountResponse struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageEntry struct {
	From struct {
		Address string `json:"address"`
	} `json:"from"`
	Subject string `json:"subject"`
}

// PickDomain fetches the advertised domains and returns the first one.
func (c *Client) PickDomain(ctx context.Context) (string, error) {
	const op = "domains"
	var envelope map[string]json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, "/domains", "", nil, &envelope); err != nil {
		return "", err
	}
	raw, ok := envelope[hydraMember]
	if !ok {
		return "", c.fail(op, domain.KindMalformed, fmt.Errorf("response missing %q", hydraMember))
	}
	var domains []domainEntry
	if err := json.Unmarshal(raw, &domains); err != nil {
		return "", c.fail(op, domain.KindMalformed, err)
	}
	if len(domains) == 0 || domains[0].Domain == "" {
		return "", c.fail(op, domain.KindMalformed, fmt.Errorf("provider returned no domains"))
	}
	return domains[0].Domain, nil
}

// CreateMailbox registers a fresh account under domain and then
// authenticates it. The local part is derived from a nanosecond
// timestamp to dodge provider-side collisions; the password carries a
// ULID for the same reason. If the token call fails the account
// already exists on the provider and is left orphaned.
func (c *Client) CreateMailbox(ctx context.Context, dom string) (*adapter.Mailbox, error) {
	address := fmt.Sprintf("user%d@%s", time.Now().UnixNano(), dom)
	password := "pass" + ulid.Make().String()

	creds := map[string]string{"address": address, "password": password}

	var acct accountResponse
	if err := c.do(ctx, "create_account", http.MethodPost, "/accounts", "", creds, &acct); err != nil {
		return nil, err
	}
	if acct.ID == "" {
		return nil, c.fail("create_account", domain.KindMalformed, fmt.Errorf("account response missing id"))
	}

	var tok tokenResponse
	if err := c.do(ctx, "token", http.MethodPost, "/token", "", creds, &tok); err != nil {
		c.log.Warn().Str("address", address).Msg("token retrieval failed after account creation; account orphaned at provider")
		return nil, err
	}
	if tok.Token == "" {
		return nil, c.fail("token", domain.KindMalformed, fmt.Errorf("token response missing token"))
	}

	return &adapter.Mailbox{Address: address, AccountID: acct.ID, Token: tok.Token}, nil
}

// ListMessages fetches the inbox in whatever order the provider uses.
func (c *Client) ListMessages(ctx context.Context, token string) ([]adapter.InboxMessage, error) {
	const op = "messages"
	var envelope map[string]json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, "/messages", token, nil, &envelope); err != nil {
		return nil, err
	}
	raw, ok := envelope[hydraMember]
	if !ok {
		return nil, c.fail(op, domain.KindMalformed, fmt.Errorf("response missing %q", hydraMember))
	}
	var entries []messageEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, c.fail(op, domain.KindMalformed, err)
	}
	out := make([]adapter.InboxMessage, 0, len(entries))
	for _, m := range entries {
		out = append(out, adapter.InboxMessage{From: m.From.Address, Subject: m.Subject})
	}
	return out, nil
}

// DeleteMailbox removes the account by its provider id.
func (c *Client) DeleteMailbox(ctx context.Context, accountID, token string) error {
	return c.do(ctx, "delete_account", http.MethodDelete, "/accounts/"+accountID, token, nil, nil)
}

// do issues one request and maps the outcome onto the provider error
// taxonomy: transport failure -> network, 401/403 -> auth, 404 ->
// not_found, other non-2xx -> rejected, undecodable body -> malformed.
func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	start := time.Now()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return c.fail(op, domain.KindMalformed, err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return c.fail(op, domain.KindNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(op, string(domain.KindNetwork), start)
		return c.fail(op, domain.KindNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := domain.KindRejected
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = domain.KindAuth
		case http.StatusNotFound:
			kind = domain.KindNotFound
		}
		c.observe(op, string(kind), start)
		return c.fail(op, kind, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.observe(op, string(domain.KindMalformed), start)
			return c.fail(op, domain.KindMalformed, err)
		}
	}
	c.observe(op, "ok", start)
	return nil
}

func (c *Client) observe(op, outcome string, start time.Time) {
	metrics.ObserveProviderCall(op, outcome, int(time.Since(start).Milliseconds()))
}

func (c *Client) fail(op string, kind domain.ProviderErrorKind, err error) error {
	c.log.Debug().Str("op", op).Str("kind", string(kind)).Err(err).Msg("mail provider call failed")
	return domain.NewProviderError(op, kind, err)
}
