// Package idgen 负责复合主键的格式化与解析。
//
// 复合主键形如 "<父级主键><分隔符><定宽序号>"，例如
// "alice-0001"、"alice-0001-day03"、"alice-0001-chat0012"。
package idgen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind 描述一类复合主键的分隔符与序号宽度
type Kind struct {
	Name  string
	Sep   string
	Width int
}

var (
	Plan        = Kind{Name: "plan", Sep: "-", Width: 4}
	Daily       = Kind{Name: "daily", Sep: "-", Width: 4}
	LegacyDaily = Kind{Name: "legacy_daily", Sep: "-day", Width: 2}
	Todo        = Kind{Name: "todo", Sep: "-", Width: 4}
	Chat        = Kind{Name: "chat", Sep: "-chat", Width: 4}
)

// ErrSequenceExhausted 序号超出定宽上限
var ErrSequenceExhausted = errors.New("序号已超出可用范围")

// Max 该类主键允许的最大序号
func (k Kind) Max() int64 {
	n := int64(1)
	for i := 0; i < k.Width; i++ {
		n *= 10
	}
	return n - 1
}

// Prefix 返回 parent 下所有兄弟主键共享的前缀
func (k Kind) Prefix(parent string) string {
	return parent + k.Sep
}

// Scope 返回计数器行的作用域键，不同类型即使父级相同也互不干扰
func (k Kind) Scope(parent string) string {
	return k.Name + ":" + parent
}

// Format 生成主键，seq 从 1 开始
func (k Kind) Format(parent string, seq int64) (string, error) {
	if seq < 1 {
		return "", fmt.Errorf("序号必须从 1 开始，实际为 %d", seq)
	}
	if seq > k.Max() {
		return "", fmt.Errorf("%s %s: %w", k.Name, parent, ErrSequenceExhausted)
	}
	return fmt.Sprintf("%s%s%0*d", parent, k.Sep, k.Width, seq), nil
}

// ParseSuffix 解析 id 的定宽数字后缀；不属于 parent 的该类主键时 ok=false
func (k Kind) ParseSuffix(parent, id string) (int64, bool) {
	rest, found := strings.CutPrefix(id, k.Prefix(parent))
	if !found || len(rest) != k.Width {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// MaxSuffix 在一组兄弟主键中找出最大后缀，无匹配时返回 0
func (k Kind) MaxSuffix(parent string, ids []string) int64 {
	var maxSeq int64
	for _, id := range ids {
		if n, ok := k.ParseSuffix(parent, id); ok && n > maxSeq {
			maxSeq = n
		}
	}
	return maxSeq
}
