//go:build !gcloud

package publishqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"
)

type DispatcherClient struct {
	baseURL    string
	queueName  string
	httpClient *http.Client
	maxRetries int
}

func NewDispatcherClient(baseURL, queueName string, maxRetries int) *DispatcherClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &DispatcherClient{
		baseURL:   baseURL,
		queueName: queueName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *DispatcherClient) RegisterPublish(ctx context.Context, task *PublishTask) (*TaskResponse, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal publish task: %w", err)
	}

	encodedBody := base64.StdEncoding.EncodeToString(payload)

	dispatcherReq := dispatcherTaskRequest{
		Task: dispatcherTask{
			HTTPRequest: dispatcherHTTPRequest{
				Body: encodedBody,
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}

	if !task.ScheduleAt.IsZero() {
		dispatcherReq.Task.ScheduleTime = task.ScheduleAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(dispatcherReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dispatcher request: %w", err)
	}

	url := fmt.Sprintf("%s/tasks", c.baseURL)
	if c.queueName != "" && c.queueName != "default" {
		url = fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying publish task registration",
				slog.String("post_id", task.PostID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.registerOnce(ctx, url, reqBody, task.PostID)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed to register publish task after %d retries: %w", c.maxRetries, lastErr)
}

func (c *DispatcherClient) registerOnce(ctx context.Context, url string, body []byte, postID string) (*TaskResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to send publish task registration",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var taskResp dispatcherTaskResponse
	if err := json.Unmarshal(respBody, &taskResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scheduleTime, _ := time.Parse(time.RFC3339, taskResp.ScheduleTime)
	createTime, _ := time.Parse(time.RFC3339, taskResp.CreateTime)

	return &TaskResponse{
		Name:         taskResp.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}
