package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token attached to every gateway request.
// An empty token sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenRefresher is implemented by token sources that can exchange the
// current token for a fresh one. When the remote rejects a request as
// unauthorized, the gateway refreshes and retries once per call.
type TokenRefresher interface {
	Refresh(ctx context.Context) error
}

// HTTP is the net/http implementation of Gateway. Every request carries a
// generated correlation id so client and server logs can be joined.
type HTTP struct {
	base   *url.URL
	client *http.Client
	tokens TokenSource
	logger *slog.Logger
}

// NewHTTP creates a Gateway backed by the remote store's REST endpoints.
func NewHTTP(cfg *Config, tokens TokenSource, logger *slog.Logger) (*HTTP, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return &HTTP{
		base:   base,
		client: &http.Client{Timeout: cfg.TimeoutDuration()},
		tokens: tokens,
		logger: logger.With("system", "gateway"),
	}, nil
}

// envelope is the uniform response body wrapping every JSON endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (g *HTTP) QueryCollection(ctx context.Context, query CollectionQuery) (*CollectionResult, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(query.Page))
	values.Set("limit", strconv.Itoa(query.Limit))
	if query.Search != "" {
		values.Set("search", query.Search)
	}
	if query.ProjectID != "" {
		values.Set("project_id", query.ProjectID)
	}
	if len(query.Tags) > 0 {
		values.Set("tags", strings.Join(query.Tags, ","))
	}
	if query.DateRange != "" {
		values.Set("date_range", query.DateRange)
	}
	if query.SortBy != "" {
		values.Set("sort_by", query.SortBy)
	}
	if query.SortDirection != "" {
		values.Set("sort_direction", query.SortDirection)
	}

	var result CollectionResult
	if err := g.doJSON(ctx, http.MethodGet, "/api/images?"+values.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTP) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, file := range req.Files {
		part, err := filePart(writer, "files", file)
		if err != nil {
			return nil, fmt.Errorf("build multipart body: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, fmt.Errorf("build multipart body: %w", err)
		}
	}
	if req.ProjectID != "" {
		if err := writer.WriteField("project_id", req.ProjectID); err != nil {
			return nil, fmt.Errorf("build multipart body: %w", err)
		}
	}
	for _, tag := range req.Tags {
		if err := writer.WriteField("tags", tag); err != nil {
			return nil, fmt.Errorf("build multipart body: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	var result UploadResult
	if err := g.doRaw(ctx, http.MethodPost, "/api/images/upload", &body, writer.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTP) AutoProcess(ctx context.Context, req AutoProcessRequest) (*ProcessResult, error) {
	var result ProcessResult
	path := fmt.Sprintf("/api/images/%s/process/auto", url.PathEscape(req.ImageID))
	if err := g.doJSON(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTP) ManualProcess(ctx context.Context, req ManualProcessRequest) (*ProcessResult, error) {
	var result ProcessResult
	path := fmt.Sprintf("/api/images/%s/process/manual", url.PathEscape(req.ImageID))
	if err := g.doJSON(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTP) BatchProcess(ctx context.Context, req BatchProcessRequest) (*BatchProcessResult, error) {
	var result BatchProcessResult
	if err := g.doJSON(ctx, http.MethodPost, "/api/images/batch-process", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTP) Delete(ctx context.Context, imageID string) error {
	path := fmt.Sprintf("/api/images/%s", url.PathEscape(imageID))
	return g.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (g *HTTP) Download(ctx context.Context, req DownloadRequest) (*DownloadResult, error) {
	values := url.Values{}
	for k, v := range req.Options {
		values.Set(k, v)
	}
	path := fmt.Sprintf("/api/images/%s/download", url.PathEscape(req.ImageID))
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return g.doBinary(ctx, http.MethodGet, path, nil, "")
}

func (g *HTTP) BatchDownload(ctx context.Context, req BatchDownloadRequest) (*DownloadResult, error) {
	body, err := json.Marshal(map[string]any{
		"image_ids": req.ImageIDs,
		"options":   req.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return g.doBinary(ctx, http.MethodPost, "/api/images/batch-download", bytes.NewReader(body), "application/json")
}

func (g *HTTP) CreateShare(ctx context.Context, req ShareRequest) (*Share, error) {
	var result struct {
		Share Share `json:"share"`
	}
	if err := g.doJSON(ctx, http.MethodPost, "/api/shares", req, &result); err != nil {
		return nil, err
	}
	return &result.Share, nil
}

func (g *HTTP) ListShares(ctx context.Context) ([]Share, error) {
	var result struct {
		Shares []Share `json:"shares"`
	}
	if err := g.doJSON(ctx, http.MethodGet, "/api/shares", nil, &result); err != nil {
		return nil, err
	}
	return result.Shares, nil
}

func (g *HTTP) DeleteShare(ctx context.Context, shareID string) error {
	path := fmt.Sprintf("/api/shares/%s", url.PathEscape(shareID))
	return g.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (g *HTTP) WatermarkSettings(ctx context.Context) (*WatermarkSettings, error) {
	var result WatermarkSettings
	if err := g.doJSON(ctx, http.MethodGet, "/api/watermark", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTP) UpdateWatermarkSettings(ctx context.Context, settings WatermarkSettings) (*WatermarkSettings, error) {
	var result WatermarkSettings
	if err := g.doJSON(ctx, http.MethodPut, "/api/watermark", settings, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTP) DeleteWatermarkSettings(ctx context.Context) error {
	return g.doJSON(ctx, http.MethodDelete, "/api/watermark", nil, nil)
}

func (g *HTTP) UploadWatermarkLogo(ctx context.Context, file UploadFile) (*WatermarkSettings, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := filePart(writer, "logo", file)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	var result WatermarkSettings
	if err := g.doRaw(ctx, http.MethodPost, "/api/watermark/logo", &body, writer.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTP) PreviewWatermark(ctx context.Context, imageID string) (*ProcessResult, error) {
	var result ProcessResult
	path := fmt.Sprintf("/api/images/%s/watermark-preview", url.PathEscape(imageID))
	if err := g.doJSON(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// filePart adds a file part carrying the file's actual content type;
// multipart.Writer.CreateFormFile would stamp application/octet-stream.
func filePart(writer *multipart.Writer, field string, file UploadFile) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	if file.ContentType != "" {
		header.Set("Content-Type", file.ContentType)
	}
	return writer.CreatePart(header)
}

// doJSON issues a request with an optional JSON body and decodes the
// enveloped response payload into out when out is non-nil.
func (g *HTTP) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return g.doRaw(ctx, method, path, reader, "application/json", out)
}

func (g *HTTP) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	payload, err := readBody(body)
	if err != nil {
		return err
	}

	resp, err := g.exchange(ctx, method, path, payload, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if !env.Success {
		if env.Message != "" {
			return fmt.Errorf("%w: %s", ErrRemoteFailure, env.Message)
		}
		return ErrRemoteFailure
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// doBinary issues a request whose successful response is a raw payload
// rather than a JSON envelope. Failures still arrive enveloped.
func (g *HTTP) doBinary(ctx context.Context, method, path string, body io.Reader, contentType string) (*DownloadResult, error) {
	payload, err := readBody(body)
	if err != nil {
		return nil, err
	}

	resp, err := g.exchange(ctx, method, path, payload, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	if resp.StatusCode != http.StatusOK {
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrRemoteFailure, env.Message)
		}
		return nil, ErrRemoteFailure
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	filename := "download"
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				filename = name
			}
		}
	}

	return &DownloadResult{Data: data, Filename: filename}, nil
}

// exchange performs one request. When the remote rejects the token and the
// token source supports refresh, it refreshes and retries exactly once; the
// buffered payload makes the request repeatable.
func (g *HTTP) exchange(ctx context.Context, method, path string, payload []byte, contentType string) (*http.Response, error) {
	resp, err := g.send(ctx, method, path, payloadReader(payload), contentType)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	refresher, ok := g.tokens.(TokenRefresher)
	if !ok {
		return resp, nil
	}
	resp.Body.Close()

	if err := refresher.Refresh(ctx); err != nil {
		return nil, ErrUnauthorized
	}

	g.logger.Debug("retrying after token refresh", "method", method, "path", path)
	return g.send(ctx, method, path, payloadReader(payload), contentType)
}

func readBody(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return data, nil
}

func payloadReader(payload []byte) io.Reader {
	if payload == nil {
		return nil
	}
	return bytes.NewReader(payload)
}

func (g *HTTP) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}
	target := g.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if g.tokens != nil {
		if token := g.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	g.logger.Debug("gateway request", "method", method, "path", path, "request_id", requestID)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("gateway transport failure", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return resp, nil
}
