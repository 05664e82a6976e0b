package config

import (
	"errors"
	"fmt"
	"time"

	"narrator/internal/narrator"
	"narrator/internal/pkg/prosody"
	"narrator/internal/pkg/voiceprofile"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Narration NarrationConfig `mapstructure:"narration"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"` // 为空时允许任意来源
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 分析结果缓存时间
}

// StorageConfig 存储配置，用于导出 SSML
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath      string `mapstructure:"base_path"`      // 基础路径
	BaseURL       string `mapstructure:"base_url"`       // 基础URL（用于生成访问URL）
	PresignExpiry int    `mapstructure:"presign_expiry"` // 预签名URL过期时间（秒）
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`          // OSS端点
	Bucket          string `mapstructure:"bucket"`            // Bucket名称
	AccessKeyID     string `mapstructure:"access_key_id"`     // AccessKey ID
	AccessKeySecret string `mapstructure:"access_key_secret"` // AccessKey Secret
	PresignExpiry   int    `mapstructure:"presign_expiry"`    // 预签名URL过期时间（秒）
}

// NarrationConfig 朗读配置
type NarrationConfig struct {
	Language       string           `mapstructure:"language"`
	Personality    string           `mapstructure:"personality"`
	Pitch          float64          `mapstructure:"pitch"`
	Rate           float64          `mapstructure:"rate"`
	Volume         float64          `mapstructure:"volume"`
	Prosody        prosody.Settings `mapstructure:"prosody"`
	WordsPerMinute int              `mapstructure:"words_per_minute"` // 模拟引擎在 rate=1.0 时的语速
	CanPause       bool             `mapstructure:"can_pause"`        // 模拟引擎是否支持暂停
}

// VoiceSettings 转为初始朗读设置
func (n NarrationConfig) VoiceSettings() narrator.VoiceSettings {
	v := narrator.DefaultVoiceSettings()
	if n.Language != "" {
		v.Language = n.Language
	}
	if n.Personality != "" {
		v.Personality = voiceprofile.ID(n.Personality)
	}
	if n.Pitch > 0 {
		v.Pitch = n.Pitch
	}
	if n.Rate > 0 {
		v.Rate = n.Rate
	}
	if n.Volume > 0 {
		v.Volume = n.Volume
	}
	if n.Prosody != (prosody.Settings{}) {
		v.Prosody = n.Prosody
	}
	return v.Normalize()
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	switch c.Storage.Type {
	case "", "local", "oss":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	if c.Narration.Rate < 0 || c.Narration.Pitch < 0 || c.Narration.Volume < 0 {
		return errors.New("narration pitch/rate/volume must not be negative")
	}
	if p := c.Narration.Personality; p != "" {
		if _, ok := voiceprofile.Get(voiceprofile.ID(p)); !ok {
			return fmt.Errorf("unknown narration personality: %s", p)
		}
	}

	return nil
}
