package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a Trello-compatible REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	key       string
	token     string
}

const (
	defaultBaseURL   = "https://api.trello.com"
	defaultUserAgent = "cardboard/0.1"
	defaultTimeout   = 10 * time.Second
	maxErrorBody     = 512
)

// Options configure a Client.
type Options struct {
	BaseURL    string
	Key        string
	Token      string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client // overrides Timeout when set
}

// APIError is returned when the API answers with a 4xx or 5xx status.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: userAgent,
		key:       strings.TrimSpace(opts.Key),
		token:     strings.TrimSpace(opts.Token),
	}, nil
}

// ListBoards returns the boards of the authenticated member.
func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("filter", "open")
	var boards []Board
	if err := c.do(ctx, http.MethodGet, "/1/members/me/boards", values, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// ListLists returns the open lists of a board.
func (c *Client) ListLists(ctx context.Context, boardID string) ([]List, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if err := requireID("board", boardID); err != nil {
		return nil, err
	}
	var lists []List
	if err := c.do(ctx, http.MethodGet, "/1/boards/"+boardID+"/lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// ListCards returns the cards of a list.
func (c *Client) ListCards(ctx context.Context, listID string) ([]Card, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if err := requireID("list", listID); err != nil {
		return nil, err
	}
	var cards []Card
	if err := c.do(ctx, http.MethodGet, "/1/lists/"+listID+"/cards", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// ListChecklistsForCard returns every checklist of a card with its items.
func (c *Client) ListChecklistsForCard(ctx context.Context, cardID string) ([]Checklist, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if err := requireID("card", cardID); err != nil {
		return nil, err
	}
	values := url.Values{}
	values.Set("checkItems", "all")
	var checklists []Checklist
	if err := c.do(ctx, http.MethodGet, "/1/cards/"+cardID+"/checklists", values, &checklists); err != nil {
		return nil, err
	}
	return checklists, nil
}

// CreateChecklist creates an empty checklist on a card.
func (c *Client) CreateChecklist(ctx context.Context, cardID, name string) (Checklist, error) {
	if c == nil {
		return Checklist{}, fmt.Errorf("client is nil")
	}
	if err := requireID("card", cardID); err != nil {
		return Checklist{}, err
	}
	values := url.Values{}
	values.Set("idCard", cardID)
	values.Set("name", name)
	var created Checklist
	if err := c.do(ctx, http.MethodPost, "/1/checklists", values, &created); err != nil {
		return Checklist{}, err
	}
	return created, nil
}

// RenameChecklist changes a checklist's name.
func (c *Client) RenameChecklist(ctx context.Context, checklistID, name string) (Checklist, error) {
	if c == nil {
		return Checklist{}, fmt.Errorf("client is nil")
	}
	if err := requireID("checklist", checklistID); err != nil {
		return Checklist{}, err
	}
	values := url.Values{}
	values.Set("name", name)
	var renamed Checklist
	if err := c.do(ctx, http.MethodPut, "/1/checklists/"+checklistID, values, &renamed); err != nil {
		return Checklist{}, err
	}
	return renamed, nil
}

// DeleteChecklist removes a checklist and its items.
func (c *Client) DeleteChecklist(ctx context.Context, checklistID string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if err := requireID("checklist", checklistID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/1/checklists/"+checklistID, nil, nil)
}

// ListItems returns the check items of a checklist in remote order.
func (c *Client) ListItems(ctx context.Context, checklistID string) ([]CheckItem, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if err := requireID("checklist", checklistID); err != nil {
		return nil, err
	}
	var items []CheckItem
	if err := c.do(ctx, http.MethodGet, checkItemsPath(checklistID), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem appends an incomplete check item to a checklist.
func (c *Client) AddItem(ctx context.Context, checklistID, name string) (CheckItem, error) {
	if c == nil {
		return CheckItem{}, fmt.Errorf("client is nil")
	}
	if err := requireID("checklist", checklistID); err != nil {
		return CheckItem{}, err
	}
	values := url.Values{}
	values.Set("name", name)
	values.Set("pos", "bottom")
	var item CheckItem
	if err := c.do(ctx, http.MethodPost, checkItemsPath(checklistID), values, &item); err != nil {
		return CheckItem{}, err
	}
	return item, nil
}

// DeleteItem removes a check item from a checklist.
func (c *Client) DeleteItem(ctx context.Context, checklistID, itemID string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if err := requireID("checklist", checklistID); err != nil {
		return err
	}
	if err := requireID("check item", itemID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, checkItemsPath(checklistID)+"/"+itemID, nil, nil)
}

// SetItemCompletion updates the completion state of a check item. The API
// addresses check item updates through the owning card, so the card id is
// resolved from the checklist first.
func (c *Client) SetItemCompletion(ctx context.Context, checklistID, itemID string, state State) (CheckItem, error) {
	if c == nil {
		return CheckItem{}, fmt.Errorf("client is nil")
	}
	if err := requireID("checklist", checklistID); err != nil {
		return CheckItem{}, err
	}
	if err := requireID("check item", itemID); err != nil {
		return CheckItem{}, err
	}
	if state != StateComplete && state != StateIncomplete {
		return CheckItem{}, fmt.Errorf("invalid state %q", state)
	}

	lookup := url.Values{}
	lookup.Set("fields", "idCard")
	var owner Checklist
	if err := c.do(ctx, http.MethodGet, "/1/checklists/"+checklistID, lookup, &owner); err != nil {
		return CheckItem{}, fmt.Errorf("resolve card: %w", err)
	}
	if owner.CardID == "" {
		return CheckItem{}, fmt.Errorf("checklist %s has no card", checklistID)
	}

	values := url.Values{}
	values.Set("state", string(state))
	path := "/1/cards/" + owner.CardID + "/checkItem/" + itemID
	var item CheckItem
	if err := c.do(ctx, http.MethodPut, path, values, &item); err != nil {
		return CheckItem{}, err
	}
	return item, nil
}

func checkItemsPath(checklistID string) string {
	return "/1/checklists/" + checklistID + "/checkItems"
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s id required", kind)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, values url.Values, dest any) error {
	query := url.Values{}
	for k, v := range values {
		query[k] = v
	}
	if c.key != "" {
		query.Set("key", c.key)
	}
	if c.token != "" {
		query.Set("token", c.token)
	}
	rel := &url.URL{Path: path, RawQuery: query.Encode()}
	return c.doURL(ctx, method, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error embeds the full URL, credentials included.
		return fmt.Errorf("execute request %s %s: %w", method, rel.Path, unwrapURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method: method,
			Path:   rel.Path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func unwrapURLError(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return urlErr.Err
	}
	return err
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
