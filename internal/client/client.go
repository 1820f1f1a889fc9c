// Package client talks to the AI generation service over its JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/logger"
)

// DefaultTimeout bounds every generation call.
const DefaultTimeout = 300 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 64 << 20

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client issues exactly one request per call and never retries.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     *slog.Logger
}

// New creates a client. The deadline is applied per call through the
// request context, so the http.Client itself carries no timeout.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http:    cfg.HTTPClient,
		log:     logger.Or(cfg.Logger),
	}
}

// envelope is the backend's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Generate sends a generation request and returns the raw "data" payload.
func (c *Client) Generate(ctx context.Context, req core.GenerationRequest) (json.RawMessage, error) {
	op := fmt.Sprintf("%s %s", req.Kind, req.Module)
	body, err := c.do(ctx, op, http.MethodPost, req.Endpoint, req.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, serverError(op, 0, "", fmt.Errorf("decode response: %w", err))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, serverError(op, 0, "", errors.New("response has no data"))
	}
	return env.Data, nil
}

// GenerateCaseStudy creates a case study from a draft.
func (c *Client) GenerateCaseStudy(ctx context.Context, d core.Draft) (*core.CaseStudy, error) {
	return c.caseStudy(ctx, core.CaseStudyRequest(d))
}

// RefineCaseStudy regenerates a case study with reviewer feedback.
func (c *Client) RefineCaseStudy(ctx context.Context, cs *core.CaseStudy, feedback string) (*core.CaseStudy, error) {
	return c.caseStudy(ctx, core.CaseStudyRefinement(cs, feedback))
}

func (c *Client) caseStudy(ctx context.Context, req core.GenerationRequest) (*core.CaseStudy, error) {
	data, err := c.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	cs, err := core.DecodeCaseStudy(data)
	if err != nil {
		return nil, serverError(string(req.Kind)+" case-study", 0, "", err)
	}
	return cs, nil
}

// GeneratePresentation creates a deck from a presentation draft.
func (c *Client) GeneratePresentation(ctx context.Context, d core.PresentationDraft) (*core.Presentation, error) {
	return c.presentation(ctx, core.PresentationRequest(d))
}

// RefineSlide asks for one slide to be rewritten; the whole deck comes back.
func (c *Client) RefineSlide(ctx context.Context, p *core.Presentation, slideIndex int, feedback string) (*core.Presentation, error) {
	return c.presentation(ctx, core.SlideRefinement(p, slideIndex, feedback))
}

func (c *Client) presentation(ctx context.Context, req core.GenerationRequest) (*core.Presentation, error) {
	data, err := c.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	p, err := core.DecodePresentation(data)
	if err != nil {
		return nil, serverError(string(req.Kind)+" presentation", 0, "", err)
	}
	return p, nil
}

// GenerateRecruiting runs one recruiting tool.
func (c *Client) GenerateRecruiting(ctx context.Context, tool core.RecruitingTool, input string) (*core.RecruitingResult, error) {
	data, err := c.Generate(ctx, core.RecruitingRequest(tool, input))
	if err != nil {
		return nil, err
	}
	var out struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, serverError("recruiting "+tool.ID, 0, "", err)
	}
	if out.Content == "" {
		return nil, serverError("recruiting "+tool.ID, 0, "", errors.New("empty content"))
	}
	return &core.RecruitingResult{Tool: tool.ID, Content: out.Content}, nil
}

// ExportPresentationHTML has the backend render a deck to a standalone
// HTML document and returns it verbatim.
func (c *Client) ExportPresentationHTML(ctx context.Context, p *core.Presentation) (string, error) {
	const op = "export presentation"
	body, err := c.do(ctx, op, http.MethodPost, core.EndpointPresentationHTML, struct {
		Presentation *core.Presentation `json:"presentation"`
	}{p})
	if err != nil {
		return "", err
	}
	var out struct {
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", serverError(op, 0, "", fmt.Errorf("decode response: %w", err))
	}
	if out.Content == nil {
		return "", serverError(op, 0, "", errors.New("response has no content"))
	}
	return *out.Content, nil
}

// HealthStatus is the backend's /api/health payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	body, err := c.do(ctx, "health", http.MethodGet, core.EndpointHealth, nil)
	if err != nil {
		return nil, err
	}
	var hs HealthStatus
	if err := json.Unmarshal(body, &hs); err != nil {
		return nil, serverError("health", 0, "", err)
	}
	return &hs, nil
}

// do performs one request under the client deadline. The deferred cancel
// stops the deadline timer on every return path.
func (c *Client) do(ctx context.Context, op, method, endpoint string, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
	}

	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	log := c.log.With("op", op, "method", method, "endpoint", endpoint)
	log.Debug("request started")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, log, op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.transportError(ctx, log, op, err)
	}
	log.Debug("request finished", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		_ = json.Unmarshal(data, &env)
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("Server error: %d", resp.StatusCode)
		}
		log.Warn("request failed", "status", resp.StatusCode, "error", msg)
		return nil, serverError(op, resp.StatusCode, msg, nil)
	}
	return data, nil
}

func (c *Client) transportError(ctx context.Context, log *slog.Logger, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Warn("request timed out", "timeout", c.timeout)
		return &core.Error{Kind: core.KindTimeout, Op: op, Err: err}
	}
	log.Warn("request could not reach server", "error", err)
	return &core.Error{Kind: core.KindNetwork, Op: op, Err: err}
}

func serverError(op string, status int, msg string, err error) error {
	return &core.Error{Kind: core.KindServer, Op: op, Status: status, Message: msg, Err: err}
}
