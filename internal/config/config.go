// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（CONN_STR、SECRET_KEY）和 APP_ENV
//  2. 根据 APP_ENV 加载对应的 configs/{env}.yaml 配置文件
//  3. 环境变量可覆盖 YAML 配置
//
// CONN_STR 和 SECRET_KEY 只能来自环境变量，缺失时 Load 返回错误，
// 进程启动失败（fail fast）。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Name string `yaml:"name"`
}

// AuthConfig 认证配置（密钥不在 YAML 中，只从环境变量读取）
// access_token_ttl 使用 time.ParseDuration 格式，如 "30m"
type AuthConfig struct {
	AccessTokenTTL string `yaml:"access_token_ttl"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env            Environment
	MongoURI       string
	MongoDatabase  string
	JWTSecret      string
	AccessTokenTTL time.Duration
	APIPort        string
	AllowedOrigins []string
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 验证必填项并构建最终配置
func Load() (*Config, error) {
	// 加载 .env
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// 解析环境
	env := parseEnv(getEnv("APP_ENV", "dev"))

	// 加载 YAML 配置
	yamlCfg := loadYAMLConfig(env)

	// 必填的敏感信息，缺失直接拒绝启动
	mongoURI := os.Getenv("CONN_STR")
	if mongoURI == "" {
		return nil, fmt.Errorf("config: CONN_STR environment variable is required")
	}
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("config: SECRET_KEY environment variable is required")
	}

	// 令牌有效期，默认 30 分钟
	ttl := 30 * time.Minute
	if yamlCfg.Auth.AccessTokenTTL != "" {
		parsed, err := time.ParseDuration(yamlCfg.Auth.AccessTokenTTL)
		if err != nil {
			return nil, fmt.Errorf("config: invalid auth.access_token_ttl %q: %w", yamlCfg.Auth.AccessTokenTTL, err)
		}
		ttl = parsed
	}

	cfg := &Config{
		Env:            env,
		MongoURI:       mongoURI,
		MongoDatabase:  getEnv("MONGO_DB", yamlCfg.Database.Name),
		JWTSecret:      secret,
		AccessTokenTTL: ttl,
		APIPort:        getEnv("API_PORT", yamlCfg.Server.Port),
		AllowedOrigins: yamlCfg.Server.AllowedOrigins,
	}

	return cfg, nil
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	// 1. 初始化默认值
	cfg := &YAMLConfig{
		Server: ServerConfig{
			Port:           "8000",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{Name: "Kitchen"},
		Auth:     AuthConfig{AccessTokenTTL: "30m"},
	}

	// 2. 加载 common.yaml（公共配置）
	for _, base := range configPaths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	// 3. 加载 {env}.yaml（环境特定配置，覆盖公共配置）
	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range configPaths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	return cfg
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsTest 是否为测试环境
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// String 返回配置摘要（隐藏密码和密钥）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Mongo: %s/%s, TokenTTL: %s}",
		c.Env, maskPassword(c.MongoURI), c.MongoDatabase, c.AccessTokenTTL)
}

// maskPassword 隐藏连接串中的密码
func maskPassword(url string) string {
	re := regexp.MustCompile(`(://[^:]+:)([^@]+)(@)`)
	return re.ReplaceAllString(url, "${1}***${3}")
}
