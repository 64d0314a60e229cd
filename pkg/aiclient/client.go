// Package aiclient 调用外部 AI 计划生成服务。
//
// 服务返回的内容一律视为不可信输入：Todos 解析失败时返回空列表，
// 由调用方决定是否视为上游错误。
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tiredheron/Stufit/config"
)

const defaultBaseURL = "http://127.0.0.1:8000"

// ErrEmptyTodos AI 服务未返回任何 Todo
var ErrEmptyTodos = errors.New("AI 服务未返回任何 Todo")

// TodoItem AI 提议的单个 Todo
type TodoItem struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	AccumulatedTime *int64 `json:"accumulated_time,omitempty"`
}

// DayBlock AI 提议的某一天的 Todo 列表
type DayBlock struct {
	Day   int        `json:"day"`
	Todos []TodoItem `json:"todos"`
}

// ChatResult /chat 的返回
type ChatResult struct {
	SessionID string
	Answer    string
	Todos     []DayBlock
}

// Client AI 服务 HTTP 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New 创建客户端
func New(cfg *config.AIConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Message      string `json:"message"`
	DocumentText string `json:"document_text,omitempty"`
}

type chatResponse struct {
	SessionID string          `json:"session_id"`
	Answer    string          `json:"answer"`
	Todos     json.RawMessage `json:"todos"`
}

// Chat 根据用户描述（可附带文档文本）生成学习计划
func (c *Client) Chat(ctx context.Context, message, documentText string) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message 不能为空")
	}

	var resp chatResponse
	if _, err := c.doJSON(ctx, "/chat", chatRequest{Message: message, DocumentText: documentText}, &resp); err != nil {
		return nil, err
	}

	var blocks []DayBlock
	if len(resp.Todos) > 0 {
		if err := json.Unmarshal(resp.Todos, &blocks); err != nil {
			blocks = nil
		}
	}

	return &ChatResult{
		SessionID: resp.SessionID,
		Answer:    resp.Answer,
		Todos:     blocks,
	}, nil
}

type planToTodosRequest struct {
	PlanText string `json:"plan_text"`
}

type planToTodosResponse struct {
	Todos json.RawMessage `json:"todos"`
}

// PlanToTodos 将计划文本转换为扁平 Todo 列表
func (c *Client) PlanToTodos(ctx context.Context, planText string) ([]TodoItem, error) {
	var resp planToTodosResponse
	if _, err := c.doJSON(ctx, "/plan-to-todos", planToTodosRequest{PlanText: planText}, &resp); err != nil {
		return nil, err
	}

	var todos []TodoItem
	if len(resp.Todos) == 0 || json.Unmarshal(resp.Todos, &todos) != nil || len(todos) == 0 {
		return nil, ErrEmptyTodos
	}
	return todos, nil
}

func (c *Client) doJSON(ctx context.Context, path string, payload any, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("调用 AI 服务 %s 失败: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return resp.StatusCode, fmt.Errorf("AI 服务错误: %s", errResp.Error)
		}
		return resp.StatusCode, fmt.Errorf("AI 服务错误: %s", resp.Status)
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("解析 AI 服务响应失败: %w", err)
	}
	return resp.StatusCode, nil
}

type errorResponse struct {
	Error string `json:"error"`
}
