package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"narrator/internal/config"
	"narrator/internal/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "narrator",
	Short: "Narrator - French text-to-speech narration service",
	Long: `Narrator turns French text into narrated speech.
It segments text into sentences, annotates prosody, renders SSML
and drives a speech engine with word-level highlighting.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// .env 中的变量先进入进程环境，再由 viper 读取
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.narrator")
	}

	// 环境变量设置
	viper.SetEnvPrefix("NARRATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stderr")
	viper.SetDefault("log.time_format", "RFC3339")

	// MongoDB，uri 为空时使用内存仓库
	viper.SetDefault("mongo.uri", "")
	viper.SetDefault("mongo.database", "narrator")
	viper.SetDefault("mongo.max_pool_size", 100)
	viper.SetDefault("mongo.min_pool_size", 10)

	// Redis，addr 为空时使用内存缓存
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.cache_ttl", "1h")

	// Storage
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local.base_path", "./data/exports")
	viper.SetDefault("storage.local.base_url", "http://localhost:8080/api/v1/prosody/exports")

	// Narration
	viper.SetDefault("narration.language", "en-US")
	viper.SetDefault("narration.personality", "professionnel")
	viper.SetDefault("narration.pitch", 1.0)
	viper.SetDefault("narration.rate", 1.0)
	viper.SetDefault("narration.volume", 1.0)
	viper.SetDefault("narration.prosody.enabled", true)
	viper.SetDefault("narration.prosody.intensity", 0.7)
	viper.SetDefault("narration.prosody.pause_multiplier", 1.0)
	viper.SetDefault("narration.prosody.emphasis_detection", true)
	viper.SetDefault("narration.prosody.breathing_sounds", false)
	viper.SetDefault("narration.prosody.natural_pacing", true)
	viper.SetDefault("narration.words_per_minute", 160)
	viper.SetDefault("narration.can_pause", true)

	// Metrics
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.service_name", "narrator")
	viper.SetDefault("metrics.service_version", "dev")
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
