package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/vaultsync/pkg/api"
)

// ServerError представляет ошибку, которую сервер вернул с телом ErrorResponse.
// Статус код сохраняется: по нему цикл синхронизации отличает просроченный
// токен от сетевых сбоев.
type ServerError struct {
	Message    string
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client представляет HTTP клиент кассы для обмена с сервером магазина
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register регистрирует кассу на сервере по ключу подключения магазина.
// Единственный запрос, не требующий токена.
func (c *Client) Register(ctx context.Context, req api.RegisterNodeRequest) (*api.RegisterNodeResponse, error) {
	var resp api.RegisterNodeResponse
	err := c.doRequest(ctx, "POST", "/api/v1/nodes/register", "", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// ListNodes возвращает зарегистрированные кассы магазина
func (c *Client) ListNodes(ctx context.Context, token string) (*api.NodeListResponse, error) {
	var resp api.NodeListResponse
	err := c.doRequest(ctx, "GET", "/api/v1/nodes", token, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list nodes request failed: %w", err)
	}
	return &resp, nil
}

// Push отправляет пакет локальных изменений серверу
func (c *Client) Push(ctx context.Context, token string, req api.PushRequest) (*api.PushResponse, error) {
	var resp api.PushResponse
	err := c.doRequest(ctx, "POST", "/api/v1/sync", token, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	return &resp, nil
}

// Pull забирает изменения сервера после порядкового номера since
func (c *Client) Pull(ctx context.Context, token string, since uint64, limit int) (*api.PullResponse, error) {
	path := fmt.Sprintf("/api/v1/sync?since=%d", since)
	if limit > 0 {
		path += fmt.Sprintf("&limit=%d", limit)
	}

	var resp api.PullResponse
	err := c.doRequest(ctx, "GET", path, token, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("pull request failed: %w", err)
	}
	return &resp, nil
}

// Status возвращает сводку состояния синхронизации на сервере
func (c *Client) Status(ctx context.Context, token string) (*api.SyncStatusResponse, error) {
	var resp api.SyncStatusResponse
	err := c.doRequest(ctx, "GET", "/api/v1/sync/status", token, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return &resp, nil
}

// ListConflicts возвращает конфликты сервера в выбранном статусе.
// Пустой статус означает все конфликты, нулевой limit - лимит сервера.
func (c *Client) ListConflicts(ctx context.Context, token, status string, limit int) (*api.ConflictListResponse, error) {
	var resp api.ConflictListResponse
	err := c.doRequest(ctx, "GET", listPath("/api/v1/conflicts", status, limit), token, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list conflicts request failed: %w", err)
	}
	return &resp, nil
}

// ResolveConflict отправляет решение оператора по конфликту
func (c *Client) ResolveConflict(ctx context.Context, token, conflictID string,
	req api.ResolveConflictRequest,
) (*api.ResolveConflictResponse, error) {
	var resp api.ResolveConflictResponse
	path := fmt.Sprintf("/api/v1/conflicts/%s/resolve", conflictID)
	err := c.doRequest(ctx, "POST", path, token, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("resolve conflict request failed: %w", err)
	}
	return &resp, nil
}

// SubmitBlindCount сдает слепой пересчет остатков
func (c *Client) SubmitBlindCount(ctx context.Context, token string,
	req api.BlindCountRequest,
) (*api.BlindCountResponse, error) {
	var resp api.BlindCountResponse
	err := c.doRequest(ctx, "POST", "/api/v1/audit/blind-count", token, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("blind count request failed: %w", err)
	}
	return &resp, nil
}

// ListDiscrepancies возвращает расхождения сверки в выбранном статусе.
// Непустой sessionID ограничивает список одной сессией пересчета.
func (c *Client) ListDiscrepancies(ctx context.Context, token, status, sessionID string,
	limit int,
) (*api.DiscrepancyListResponse, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if sessionID != "" {
		q.Set("session_id", sessionID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/audit/discrepancies"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var resp api.DiscrepancyListResponse
	err := c.doRequest(ctx, "GET", path, token, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list discrepancies request failed: %w", err)
	}
	return &resp, nil
}

// ResolveDiscrepancy отправляет решение оператора по расхождению
func (c *Client) ResolveDiscrepancy(ctx context.Context, token, discrepancyID string,
	req api.ResolveDiscrepancyRequest,
) (*api.ResolveDiscrepancyResponse, error) {
	var resp api.ResolveDiscrepancyResponse
	path := fmt.Sprintf("/api/v1/audit/discrepancies/%s/resolve", discrepancyID)
	err := c.doRequest(ctx, "POST", path, token, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("resolve discrepancy request failed: %w", err)
	}
	return &resp, nil
}

// listPath строит путь списочного запроса с фильтром статуса и лимитом
func listPath(base, status string, limit int) string {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if enc := q.Encode(); enc != "" {
		return base + "?" + enc
	}
	return base
}

// doRequest выполняет HTTP запрос.
// Непустой token уходит в заголовок Authorization как Bearer.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result interface{}) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return &ServerError{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
