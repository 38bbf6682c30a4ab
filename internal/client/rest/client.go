// Package rest implements the remote gateway binding over the server's
// HTTP API and WebSocket change feed.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wayplan/wayplan/internal/client/media"
	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/server/models"
)

// Client talks to the wayplan server. It implements media.Backend.
type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

var _ media.Backend = (*Client)(nil)

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// LoggedIn reports whether an access token is held.
func (c *Client) LoggedIn() bool {
	return c.token() != ""
}

type apiError struct {
	Error string `json:"error"`
}

// mapStatus folds HTTP statuses back into the shared error taxonomy.
func mapStatus(status int, msg string) error {
	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		if strings.Contains(msg, "not empty") {
			return common.ErrFolderNotEmpty
		}
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", common.ErrBlobOperation, msg)
	default:
		return fmt.Errorf("server error (%d): %s", status, msg)
	}
}

// do executes one JSON request. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return mapStatus(resp.StatusCode, apiErr.Error)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Register creates an account on the server.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username, "password": password,
	}, nil)
}

// Login authenticates and stores the token pair for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username, "password": password,
	}, &pair)
	if err != nil {
		return err
	}
	c.setTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

// Refresh exchanges the stored refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	refresh := c.refreshToken
	c.mu.Unlock()
	if refresh == "" {
		return common.ErrUnauthorized
	}

	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": refresh,
	}, &pair)
	if err != nil {
		return err
	}
	c.setTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

func (c *Client) Snapshot(ctx context.Context) ([]*models.Folder, []*models.File, error) {
	var dir struct {
		Folders []*models.Folder `json:"folders"`
		Files   []*models.File   `json:"files"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/media", nil, &dir); err != nil {
		return nil, nil, err
	}
	return dir.Folders, dir.Files, nil
}

func (c *Client) CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	var folder models.Folder
	err := c.do(ctx, http.MethodPost, "/api/v1/media/folders", map[string]any{
		"name": name, "parent_id": parentID,
	}, &folder)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/media/folders/"+url.PathEscape(id), nil, nil)
}

// Upload sends one file as a multipart request. The server supports
// batches; the client model drives per-file isolation itself, so one
// file per request keeps failure attribution exact.
func (c *Client) Upload(ctx context.Context, folderID *string, name string, size int64, r io.Reader) (*models.File, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if folderID != nil {
		if err := mw.WriteField("folder_id", *folderID); err != nil {
			return nil, err
		}
	}
	part, err := mw.CreateFormFile("files", name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/media/files", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, mapStatus(resp.StatusCode, apiErr.Error)
	}

	var body struct {
		Results []struct {
			File  *models.File `json:"file"`
			Error string       `json:"error"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if len(body.Results) != 1 {
		return nil, fmt.Errorf("unexpected upload result count %d", len(body.Results))
	}
	if body.Results[0].Error != "" {
		return nil, fmt.Errorf("upload rejected: %s", body.Results[0].Error)
	}
	return body.Results[0].File, nil
}

func (c *Client) RenameFile(ctx context.Context, id, newName string) (*models.File, error) {
	var file models.File
	err := c.do(ctx, http.MethodPut, "/api/v1/media/files/"+url.PathEscape(id)+"/rename", map[string]string{
		"name": newName,
	}, &file)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/media/files/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateShare(ctx context.Context, folderIDs, fileIDs []string) (*media.ShareLink, error) {
	var out struct {
		Token     string `json:"token"`
		ViewerURL string `json:"viewer_url"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/media/share", map[string]any{
		"folder_ids": folderIDs, "file_ids": fileIDs,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &media.ShareLink{Token: out.Token, ViewerURL: out.ViewerURL}, nil
}

// SubscribeFeed dials the WebSocket feed. The returned channel closes
// when the connection drops or ctx is cancelled.
func (c *Client) SubscribeFeed(ctx context.Context) (<-chan feed.Event, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http")
	wsURL += "/api/v1/feed?auth_token=" + url.QueryEscape(c.token())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	events := make(chan feed.Event, 16)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer conn.Close()
		for {
			var e feed.Event
			if err := conn.ReadJSON(&e); err != nil {
				return
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
