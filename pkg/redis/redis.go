package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tiredheron/Stufit/config"
)

// ErrSessionNotFound AI 会话缓冲不存在或已过期
var ErrSessionNotFound = errors.New("AI 会话不存在或已过期")

// Client Redis 客户端封装
// 用于 Token 黑名单、接口限流与 AI 生成结果缓冲
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// NewFromClient 包装已有的 go-redis 客户端
func NewFromClient(rdb *goredis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 限流 ──

// fixedWindowScript 计数与过期时间在同一脚本内设置，避免 key 永不过期
var fixedWindowScript = goredis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// CheckRateLimit 固定窗口计数，返回本次请求是否放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := fixedWindowScript.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n <= int64(limit), nil
}

// ── AI 会话缓冲 ──

const sessionPrefix = "ai:session:"

// AISession AI 生成但尚未保存的计划
type AISession struct {
	UserID    string          `json:"user_id"`
	PlanID    string          `json:"plan_id,omitempty"`
	PlanText  string          `json:"plan_text"`
	Todos     json.RawMessage `json:"todos,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// SaveSession 写入 AI 会话缓冲
func (c *Client) SaveSession(ctx context.Context, sessionID string, s *AISession, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("序列化 AI 会话失败: %w", err)
	}
	return c.rdb.Set(ctx, sessionPrefix+sessionID, raw, ttl).Err()
}

// GetSession 读取 AI 会话缓冲
func (c *Client) GetSession(ctx context.Context, sessionID string) (*AISession, error) {
	raw, err := c.rdb.Get(ctx, sessionPrefix+sessionID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var s AISession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("解析 AI 会话失败: %w", err)
	}
	return &s, nil
}

// DeleteSession 删除 AI 会话缓冲
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, sessionPrefix+sessionID).Err()
}
