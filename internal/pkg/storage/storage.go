package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotFound 对象不存在
var ErrNotFound = errors.New("object not found")

// ErrInvalidKey 对象 key 非法（空、绝对路径或包含 ..）
var ErrInvalidKey = errors.New("invalid object key")

// Storage 导出文件存储接口
type Storage interface {
	// Put 写入对象，返回访问 URL
	Put(ctx context.Context, key string, data io.Reader, contentType string) (string, error)

	// Get 读取对象，不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// URL 返回对象的临时访问地址
	URL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// Delete 删除对象，不存在时视为成功
	Delete(ctx context.Context, key string) error

	// Exists 检查对象是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// Type 存储类型
	Type() string
}

// StorageType 存储类型
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // 本地文件系统
	StorageTypeOSS   StorageType = "oss"   // 阿里云OSS
)

// CleanKey 规范化对象 key
// 统一为正斜杠、去掉前导斜杠，拒绝跳出根目录的 key
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(strings.TrimSpace(key), "\\", "/")
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	cleaned := path.Clean(key)
	if cleaned == "." {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// ContentType 根据扩展名推断 MIME 类型
func ContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".ssml", ".xml":
		return "application/ssml+xml"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}
