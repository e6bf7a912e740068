package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/planner"
)

// HTTPClient implements OpturaClient using the Optura HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Project CRUD ---

func (c *HTTPClient) CreateProject(ctx context.Context, req *CreateProjectRequest) (*model.Project, error) {
	var project model.Project
	if err := c.doJSON(ctx, http.MethodPost, "/v1/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *HTTPClient) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := c.doJSON(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *HTTPClient) ListProjects(ctx context.Context, req *ListProjectsRequest) (*ListProjectsResponse, error) {
	q := url.Values{}
	if len(req.Status) > 0 {
		q.Set("status", strings.Join(req.Status, ","))
	}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}

	path := "/v1/projects"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListProjectsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*model.Project, error) {
	var project model.Project
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/projects/"+url.PathEscape(id), req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *HTTPClient) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/projects/"+url.PathEscape(id), nil, nil)
}

// --- Planning ---

func (c *HTTPClient) GeneratePlan(ctx context.Context, projectID string) (*planner.Plan, error) {
	var plan planner.Plan
	if err := c.doJSON(ctx, http.MethodPost, "/v1/projects/"+url.PathEscape(projectID)+"/plan", nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *HTTPClient) AcceptPlan(ctx context.Context, projectID string, plan *planner.Plan) (*AcceptPlanResponse, error) {
	var resp AcceptPlanResponse
	path := "/v1/projects/" + url.PathEscape(projectID) + "/plan/accept"
	if err := c.doJSON(ctx, http.MethodPost, path, plan, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Task CRUD ---

func (c *HTTPClient) CreateTask(ctx context.Context, req *CreateTaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) ListProjectTasks(ctx context.Context, projectID string, req *ListTasksRequest) (*ListTasksResponse, error) {
	path := "/v1/projects/" + url.PathEscape(projectID) + "/tasks"
	if req != nil && len(req.Status) > 0 {
		q := url.Values{}
		q.Set("status", strings.Join(req.Status, ","))
		path += "?" + q.Encode()
	}

	var resp ListTasksResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/tasks/"+url.PathEscape(id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/tasks/"+url.PathEscape(id), nil, nil)
}

// --- Task lifecycle ---

func (c *HTTPClient) GenerateSpec(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(taskID)+"/spec", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) RecordTestResults(ctx context.Context, taskID string, results json.RawMessage) (*model.Task, error) {
	var task model.Task
	path := "/v1/tasks/" + url.PathEscape(taskID) + "/test-results"
	if err := c.doJSON(ctx, http.MethodPost, path, results, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) ApproveTask(ctx context.Context, taskID, approvedBy string) (*model.Task, error) {
	body := map[string]string{}
	if approvedBy != "" {
		body["approved_by"] = approvedBy
	}
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(taskID)+"/approve", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) RejectTask(ctx context.Context, taskID, reason string) (*model.Task, error) {
	body := map[string]string{"reason": reason}
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(taskID)+"/reject", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) CompleteTask(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(taskID)+"/complete", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// --- Dependencies ---

func (c *HTTPClient) AddDependency(ctx context.Context, req *AddDependencyRequest) (*model.TaskDependency, error) {
	var dep model.TaskDependency
	if err := c.doJSON(ctx, http.MethodPost, "/v1/dependencies", req, &dep); err != nil {
		return nil, err
	}
	return &dep, nil
}

func (c *HTTPClient) RemoveDependency(ctx context.Context, taskID, dependsOnTaskID string) error {
	q := url.Values{}
	q.Set("task_id", taskID)
	q.Set("depends_on_task_id", dependsOnTaskID)
	return c.doJSON(ctx, http.MethodDelete, "/v1/dependencies?"+q.Encode(), nil, nil)
}

func (c *HTTPClient) GetDependencies(ctx context.Context, taskID string) ([]*model.TaskDependency, error) {
	var resp struct {
		Dependencies []*model.TaskDependency `json:"dependencies"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(taskID)+"/dependencies", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Dependencies, nil
}

// --- Orchestration ---

func (c *HTTPClient) CriticalPath(ctx context.Context, projectID string) (*model.CriticalPathResult, error) {
	var res model.CriticalPathResult
	path := "/v1/projects/" + url.PathEscape(projectID) + "/critical-path"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) GetGraph(ctx context.Context, projectID string) (*model.GraphResponse, error) {
	var res model.GraphResponse
	path := "/v1/projects/" + url.PathEscape(projectID) + "/graph"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) NextActions(ctx context.Context, projectID string, limit int) (*model.NextActions, error) {
	path := "/v1/projects/" + url.PathEscape(projectID) + "/next-actions"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var res model.NextActions
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) StatusSummary(ctx context.Context, projectID string) (*model.StatusSummary, error) {
	var res model.StatusSummary
	path := "/v1/projects/" + url.PathEscape(projectID) + "/status-summary"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Reprioritize(ctx context.Context, projectID string) (*model.ReprioritizeResult, error) {
	var res model.ReprioritizeResult
	path := "/v1/projects/" + url.PathEscape(projectID) + "/reprioritize"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// --- Audit ---

func (c *HTTPClient) ListAudit(ctx context.Context, projectID string) ([]*model.AuditEntry, error) {
	var resp struct {
		Entries []*model.AuditEntry `json:"entries"`
	}
	path := "/v1/projects/" + url.PathEscape(projectID) + "/audit"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Gate       string
}

func (e *APIError) Error() string {
	if e.Gate != "" {
		return fmt.Sprintf("HTTP %d (%s): %s", e.StatusCode, e.Gate, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
			Gate  string `json:"gate"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error, Gate: errResp.Gate}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
