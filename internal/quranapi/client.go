// Package quranapi is the client of the recitations REST API.
//
// Every method returns either its decoded, validated payload or an *Error
// with a user-facing message. Nothing here panics on bad input from the
// network.
package quranapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/tilawat/internal/model"
)

const (
	DefaultTimeout = 15 * time.Second
	maxBodySize    = 4 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type validator interface {
	Validate() error
}

// Juz fetches the chapters and recitations of section n.
func (c *Client) Juz(ctx context.Context, n int) (model.JuzDetail, error) {
	var out model.JuzDetail
	err := c.do(ctx, http.MethodGet, "/juz/"+strconv.Itoa(n), nil, &out)
	return out, err
}

// Surah fetches a chapter and its recitations.
func (c *Client) Surah(ctx context.Context, id int) (model.SurahDetail, error) {
	var out model.SurahDetail
	err := c.do(ctx, http.MethodGet, "/surah/"+strconv.Itoa(id), nil, &out)
	return out, err
}

// Surahs lists every chapter.
func (c *Client) Surahs(ctx context.Context) ([]model.Surah, error) {
	var out model.SurahList
	err := c.do(ctx, http.MethodGet, "/surahs", nil, &out)
	return out, err
}

// Random fetches one random recitation.
func (c *Client) Random(ctx context.Context) (model.Recitation, error) {
	var out model.Recitation
	err := c.do(ctx, http.MethodGet, "/random", nil, &out)
	return out, err
}

// MostLiked fetches recitations ranked by likes.
func (c *Client) MostLiked(ctx context.Context) ([]model.Recitation, error) {
	var out model.RecitationList
	err := c.do(ctx, http.MethodGet, "/recitations/most-liked", nil, &out)
	return out, err
}

// Search finds recitations by reciter, url or chapter name.
// An empty query returns nothing without contacting the backend.
func (c *Client) Search(ctx context.Context, q string) ([]model.Recitation, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	var out model.RecitationList
	err := c.do(ctx, http.MethodGet, "/recitations/search?q="+url.QueryEscape(q), nil, &out)
	return out, err
}

// AddRecitation submits a new recitation and returns the stored record.
func (c *Client) AddRecitation(ctx context.Context, in model.NewRecitation) (model.Recitation, error) {
	var out model.Recitation
	err := c.do(ctx, http.MethodPost, "/recitations", in, &out)
	return out, err
}

// Like adds one like to a recitation and returns the new count.
func (c *Client) Like(ctx context.Context, id string) (model.LikeResult, error) {
	var out model.LikeResult
	err := c.do(ctx, http.MethodPost, "/recitations/"+url.PathEscape(id)+"/like", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in any, out validator) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindTransport, Message: MsgConnectivity, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Kind: KindTransport, Message: MsgConnectivity, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return &Error{Kind: KindTransport, Message: MsgConnectivity, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")
	if err != nil {
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Message: MsgConnectivity, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := detailMessage(raw)
		log.Warn().Str("path", path).Int("status", resp.StatusCode).Str("detail", msg).Msg("api returned error status")
		return &Error{
			Kind:    KindStatus,
			Status:  resp.StatusCode,
			Message: msg,
			Err:     fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindMalformed, Status: resp.StatusCode, Message: MsgMalformed, Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	if err := out.Validate(); err != nil {
		return &Error{Kind: KindMalformed, Status: resp.StatusCode, Message: MsgMalformed, Err: err}
	}
	return nil
}
