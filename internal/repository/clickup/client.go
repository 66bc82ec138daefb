package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hufschlaeger.net/canvas-clickup-sync/internal/config"
	clickupDomain "hufschlaeger.net/canvas-clickup-sync/internal/domain/clickup"
)

// maxPages begrenzt die Paginierung, falls ClickUp last_page nie setzt
const maxPages = 100

type Repository struct {
	config     *config.Config
	httpClient *http.Client
	baseURL    string
}

func NewRepository(cfg *config.Config) *Repository {
	return &Repository{
		config:     cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.GetClickUpBaseURL(),
	}
}

// ValidateConnection prüft Token und Zugriff auf die konfigurierte Liste
func (r *Repository) ValidateConnection(ctx context.Context) error {
	err := r.do(ctx, "get list", http.MethodGet, r.listPath(""), nil, nil)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.status == http.StatusUnauthorized {
			return fmt.Errorf("invalid ClickUp token")
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}

// GetTasks lädt alle Tasks der Liste, auch geschlossene, über alle Seiten
func (r *Repository) GetTasks(ctx context.Context) ([]clickupDomain.TaskNode, error) {
	var tasks []clickupDomain.TaskNode

	for page := 0; page < maxPages; page++ {
		query := url.Values{}
		query.Set("include_closed", "true")
		query.Set("page", strconv.Itoa(page))

		var response clickupDomain.TasksResponse
		if err := r.do(ctx, "get tasks", http.MethodGet, r.listPath("/task?"+query.Encode()), nil, &response); err != nil {
			return nil, err
		}

		tasks = append(tasks, response.Tasks...)
		if response.LastPage || len(response.Tasks) == 0 {
			return tasks, nil
		}
	}

	return tasks, nil
}

// GetFields lädt das Feld-Schema der Liste
func (r *Repository) GetFields(ctx context.Context) ([]clickupDomain.FieldDefinition, error) {
	var response clickupDomain.FieldsResponse
	if err := r.do(ctx, "get fields", http.MethodGet, r.listPath("/field"), nil, &response); err != nil {
		return nil, err
	}
	return response.Fields, nil
}

func (r *Repository) CreateTask(ctx context.Context, request clickupDomain.CreateTaskRequest) (*clickupDomain.CreatedTask, error) {
	var created clickupDomain.CreatedTask
	if err := r.do(ctx, "create task", http.MethodPost, r.listPath("/task"), request, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *Repository) UpdateTask(ctx context.Context, taskID string, request clickupDomain.UpdateTaskRequest) error {
	path := fmt.Sprintf("/task/%s", url.PathEscape(taskID))
	return r.do(ctx, "update task", http.MethodPut, path, request, nil)
}

func (r *Repository) listPath(suffix string) string {
	return fmt.Sprintf("/list/%s%s", url.PathEscape(r.config.ClickUpListID), suffix)
}

type apiError struct {
	op     string
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s failed %d: %s", e.op, e.status, e.body)
}

// do führt einen Request aus. body wird als JSON gesendet, result (falls
// nicht nil) aus der Antwort dekodiert.
func (r *Repository) do(ctx context.Context, op, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return err
	}

	// ClickUp erwartet den Personal Token ohne Bearer-Präfix
	req.Header.Set("Authorization", r.config.ClickUpToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		err = resp.Body.Close()
		if err != nil {
			fmt.Printf("fehler beim Abschliessen des Response bodies.")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &apiError{op: op, status: resp.StatusCode, body: string(respBody)}
	}

	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
