package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/homely/homely-back/internal/domain"
)

// Client drives the REST surface from Go. Error responses are mapped back to
// the domain taxonomy so callers handle them the same way regardless of
// whether the store is local or remote.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithAuthToken(token string) Option {
	return func(c *Client) { c.authToken = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListJobs(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) CreateJob(ctx context.Context, job domain.Job) (domain.Job, error) {
	var created domain.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs", job, &created); err != nil {
		return domain.Job{}, err
	}
	return created, nil
}

func (c *Client) UpdateJobStatus(
	ctx context.Context,
	id string,
	status domain.JobStatus,
) (domain.Job, error) {
	var updated domain.Job
	path := fmt.Sprintf("/api/jobs/%s/status", id)
	body := map[string]domain.JobStatus{"status": status}
	if err := c.do(ctx, http.MethodPatch, path, body, &updated); err != nil {
		return domain.Job{}, err
	}
	return updated, nil
}

func (c *Client) Login(ctx context.Context, role domain.Role) (domain.UserProfile, error) {
	var profile domain.UserProfile
	body := map[string]domain.Role{"role": role}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &profile); err != nil {
		return domain.UserProfile{}, err
	}
	return profile, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Enhance(
	ctx context.Context,
	rawText string,
	serviceType domain.ServiceType,
) (domain.EnhancedDraft, error) {
	var draft domain.EnhancedDraft
	body := map[string]string{
		"rawText":     rawText,
		"serviceType": string(serviceType),
	}
	if err := c.do(ctx, http.MethodPost, "/api/enhance", body, &draft); err != nil {
		return domain.EnhancedDraft{}, err
	}
	return draft, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		request.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrStoreUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return apiError(method, path, response)
	}
	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(method, path string, response *http.Response) error {
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(response.Body).Decode(&payload)

	message := payload.Error.Message
	if message == "" {
		message = response.Status
	}

	var kind error
	switch response.StatusCode {
	case http.StatusBadRequest:
		kind = domain.ErrValidation
	case http.StatusNotFound:
		kind = domain.ErrNotFound
	case http.StatusConflict:
		kind = domain.ErrConflict
	default:
		kind = domain.ErrStoreUnavailable
	}
	return fmt.Errorf("%s %s: %w: %s", method, path, kind, message)
}
