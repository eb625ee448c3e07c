// Package client talks to the grafik API on behalf of the terminal client.
// Client implements grid.Remote for the schedule grid.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/clientconfig"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/report"
)

const apiPrefix = "/api/v1"

var (
	ErrNotLoggedIn      = errors.New("not logged in, run `grafik login` first")
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// APIError is a failure reported through the REST envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s (%d)", e.Message, e.Status)
	}
	parts := make([]string, 0, len(e.Details))
	for field, msg := range e.Details {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, strings.Join(parts, "; "))
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	baseURL      string
	token        string
}

// New builds a client for baseURL. timeout bounds every call; the event
// stream is not affected.
func New(baseURL, token string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout, Transport: transport},
		streamClient: &http.Client{Transport: transport},
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
	}
}

// FromConfig builds a client from the client config.
func FromConfig(cfg *clientconfig.Config) *Client {
	return New(cfg.Server.URL, cfg.Server.Token, cfg.RequestTimeout())
}

// SetToken replaces the bearer token, e.g. after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends the request and returns the status and the whole body.
func (c *Client) do(req *http.Request) (int, http.Header, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, resp.Header, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, resp.Header, data, nil
}

// call performs a REST call and decodes the envelope's data into out.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	status, _, data, err := c.do(req)
	if err != nil {
		return err
	}
	return decodeEnvelope(status, data, out)
}

func decodeEnvelope(status int, data []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, status, snippet(data))
	}
	if !env.Success || status >= http.StatusBadRequest {
		apiErr := &APIError{Status: status, Message: http.StatusText(status)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}

// grid posts a flat grid body. The answer is decoded whatever the status,
// since domain errors arrive as {error} with a 4xx code.
func (c *Client) grid(ctx context.Context, method, path string, body, out any) error {
	if c.token == "" {
		return ErrNotLoggedIn
	}
	req, err := c.newRequest(ctx, method, path, nil, body)
	if err != nil {
		return err
	}
	status, _, data, err := c.do(req)
	if err != nil {
		return err
	}

	var envelope struct {
		Success *bool           `json:"success"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, status, snippet(data))
	}
	// Middleware rejections (401, 403) use the REST envelope, whose error
	// is an object rather than a string.
	if len(envelope.Error) > 0 && envelope.Error[0] == '{' {
		return decodeEnvelope(status, data, nil)
	}
	if envelope.Success == nil && len(envelope.Error) == 0 {
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, status, snippet(data))
	}
	return json.Unmarshal(data, out)
}

func (c *Client) Upsert(ctx context.Context, req grafik.UpsertEntryRequest) (grafik.UpsertEntryResponse, error) {
	var out grafik.UpsertEntryResponse
	err := c.grid(ctx, http.MethodPost, "/grafik/entries", req, &out)
	return out, err
}

func (c *Client) Batch(ctx context.Context, req grafik.BatchEntriesRequest) (grafik.BatchEntriesResponse, error) {
	var out grafik.BatchEntriesResponse
	err := c.grid(ctx, http.MethodPost, "/grafik/entries/batch", req, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, req grafik.DeleteEntryRequest) (grafik.DeleteEntryResponse, error) {
	var out grafik.DeleteEntryResponse
	err := c.grid(ctx, http.MethodDelete, "/grafik/entries", req, &out)
	return out, err
}

func (c *Client) AutoPlan(ctx context.Context, req grafik.AutoPlanRequest) (grafik.AutoPlanResponse, error) {
	var out grafik.AutoPlanResponse
	err := c.grid(ctx, http.MethodPost, "/grafik/auto-plan", req, &out)
	return out, err
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (auth.TokenResponse, error) {
	var out auth.TokenResponse
	err := c.call(ctx, http.MethodPost, "/auth/login/", nil, auth.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// Refresh trades a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (auth.AccessTokenResponse, error) {
	var out auth.AccessTokenResponse
	err := c.call(ctx, http.MethodPost, "/auth/refresh", nil, auth.RefreshTokenRequest{RefreshToken: refreshToken}, &out)
	return out, err
}

// Logout revokes the refresh token on the server.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.call(ctx, http.MethodPost, "/auth/logout", nil, auth.RefreshTokenRequest{RefreshToken: refreshToken}, nil)
}

func (c *Client) SSEToken(ctx context.Context) (auth.SSETokenResponse, error) {
	var out auth.SSETokenResponse
	if c.token == "" {
		return out, ErrNotLoggedIn
	}
	err := c.call(ctx, http.MethodPost, "/auth/sse-token", nil, nil, &out)
	return out, err
}

// MonthView loads one department month. Zero fields let the server choose.
func (c *Client) MonthView(ctx context.Context, req grafik.MonthViewRequest) (grafik.MonthView, error) {
	var out grafik.MonthView
	if c.token == "" {
		return out, ErrNotLoggedIn
	}
	q := url.Values{}
	if req.DepartmentID > 0 {
		q.Set("department", strconv.FormatInt(req.DepartmentID, 10))
	}
	if req.Year > 0 {
		q.Set("year", strconv.Itoa(req.Year))
	}
	if req.Month > 0 {
		q.Set("month", strconv.Itoa(req.Month))
	}
	err := c.call(ctx, http.MethodGet, "/grafik", q, nil, &out)
	return out, err
}

func (c *Client) Holidays(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	var out []holiday.HolidayResponse
	q := url.Values{"year": {strconv.Itoa(year)}}
	err := c.call(ctx, http.MethodGet, "/holidays", q, nil, &out)
	return out, err
}

func (c *Client) Requests(ctx context.Context) ([]podanie.RequestResponse, error) {
	var out []podanie.RequestResponse
	err := c.call(ctx, http.MethodGet, "/podania", nil, nil, &out)
	return out, err
}

func (c *Client) CreateRequest(ctx context.Context, req podanie.CreateRequest) (podanie.RequestResponse, error) {
	var out podanie.RequestResponse
	err := c.call(ctx, http.MethodPost, "/podania", nil, req, &out)
	return out, err
}

// File is a downloaded attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (c *Client) download(ctx context.Context, path string, query url.Values, fallback string) (File, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return File{}, err
	}
	req.Header.Set("Accept", "*/*")
	status, header, data, err := c.do(req)
	if err != nil {
		return File{}, err
	}
	if status != http.StatusOK {
		return File{}, decodeEnvelope(status, data, nil)
	}
	f := File{Name: fallback, ContentType: header.Get("Content-Type"), Data: data}
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		f.Name = params["filename"]
	}
	return f, nil
}

// RequestPDF downloads the rendered PDF of a leave request.
func (c *Client) RequestPDF(ctx context.Context, id int64) (File, error) {
	return c.download(ctx, "/podania/"+strconv.FormatInt(id, 10)+"/pdf", nil, fmt.Sprintf("podanie_%d.pdf", id))
}

// VacationReport returns the yearly vacation report as data.
func (c *Client) VacationReport(ctx context.Context, departmentID int64, year int) (report.VacationReport, error) {
	var out report.VacationReport
	q := url.Values{
		"department": {strconv.FormatInt(departmentID, 10)},
		"year":       {strconv.Itoa(year)},
		"format":     {report.FormatJSON},
	}
	err := c.call(ctx, http.MethodGet, "/admin/reports/vacation", q, nil, &out)
	return out, err
}

// VacationFile downloads the report rendered as format ("xlsx" or "pdf").
func (c *Client) VacationFile(ctx context.Context, departmentID int64, year int, format string) (File, error) {
	q := url.Values{
		"department": {strconv.FormatInt(departmentID, 10)},
		"year":       {strconv.Itoa(year)},
		"format":     {format},
	}
	return c.download(ctx, "/admin/reports/vacation", q, fmt.Sprintf("raport_urlopy_%d.%s", year, format))
}
