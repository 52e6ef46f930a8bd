package config

import (
	"fmt"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	DocAI    DocAIConfig    `mapstructure:"docai"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	// OfflineMode 为 true 时完全跳过票据提取/分类的外部调用（本地开发和测试用）
	OfflineMode bool   `mapstructure:"offline_mode"`
	UploadDir   string `mapstructure:"upload_dir"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type DocAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	// ExtractModel 负责票据字段抽取，ClassifyModel 负责行项目分类
	// 二者可以是同一个模型，拆开只是为了方便独立调优
	ExtractModel  string `mapstructure:"extract_model"`
	ClassifyModel string `mapstructure:"classify_model"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// LoadConfig 读取配置文件
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config") // 配置文件名 (不带扩展名)
	viper.SetConfigType("yaml")   // 文件类型
	viper.AddConfigPath(".")      // 查找路径：根目录

	// 支持环境变量覆盖 (例如在 Docker 中)
	// 比如设置 RECEIPT_SERVER_OFFLINE_MODE=true 可以跳过外部提取服务
	viper.SetEnvPrefix("RECEIPT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &cfg, nil
}
