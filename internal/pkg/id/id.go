// Package id 资源主键
//
// 提取记录与故事使用 UUIDv7，字典序即创建顺序
package id

import (
	"strings"

	"github.com/google/uuid"
)

// New 生成 UUIDv7，随机源异常时退回 v4
func New() string {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}

// Normalize 校验并返回小写的标准格式
// 支持带花括号或 urn:uuid: 前缀的写法
func Normalize(s string) (string, bool) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return u.String(), true
}
