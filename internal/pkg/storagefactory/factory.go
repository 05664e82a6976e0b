package storagefactory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"narrator/internal/config"
	"narrator/internal/pkg/storage"
	"narrator/internal/pkg/storage/local"
	"narrator/internal/pkg/storage/oss"
)

// ErrNotConfigured 未配置存储类型，SSML 导出不可用
var ErrNotConfigured = errors.New("storage type is not configured")

// NewStorage 根据配置创建 SSML 导出使用的存储
func NewStorage(ctx context.Context, cfg *config.StorageConfig) (storage.Storage, error) {
	switch cfg.Type {
	case "local":
		if cfg.Local == nil || cfg.Local.BasePath == "" {
			return nil, fmt.Errorf("storage.local.base_path is required")
		}
		return local.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	case "oss":
		if cfg.OSS == nil {
			return nil, fmt.Errorf("storage.oss config is required")
		}
		if missing := missingOSSFields(cfg.OSS); len(missing) > 0 {
			return nil, fmt.Errorf("storage.oss missing fields: %s", strings.Join(missing, ", "))
		}
		return oss.NewOSSStorage(
			cfg.OSS.Endpoint,
			cfg.OSS.Bucket,
			cfg.OSS.AccessKeyID,
			cfg.OSS.AccessKeySecret,
			cfg.OSS.PresignExpiry,
		)
	case "":
		return nil, ErrNotConfigured
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func missingOSSFields(c *config.OSSConfig) []string {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"endpoint", c.Endpoint},
		{"bucket", c.Bucket},
		{"access_key_id", c.AccessKeyID},
		{"access_key_secret", c.AccessKeySecret},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
