package config

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	MySQL        DatabaseConfig     `mapstructure:"mysql"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Log          LogConfig          `mapstructure:"log"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Notification NotificationConfig `mapstructure:"notification"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name string `mapstructure:"name"`
	Mode string `mapstructure:"mode"`
	Port int    `mapstructure:"port"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey           string `mapstructure:"secret_key"`
	AccessExpireSeconds int    `mapstructure:"access_expire_seconds"`
	Issuer              string `mapstructure:"issuer"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// DSN 获取数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// Addr 获取Redis地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// PaginationConfig 分页配置
type PaginationConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MinLimit     int `mapstructure:"min_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// NotificationConfig 通知模块配置
type NotificationConfig struct {
	APIPrefix                     string           `mapstructure:"api_prefix"`
	IncludeSoftDelete             bool             `mapstructure:"include_soft_delete"`
	IncludeHardDelete             bool             `mapstructure:"include_hard_delete"`
	AllowList                     bool             `mapstructure:"allow_list"`
	AllowRetrieve                 bool             `mapstructure:"allow_retrieve"`
	IncludeSerializerFullDetails  bool             `mapstructure:"include_serializer_full_details"`
	ExcludeSerializerNoneFields   bool             `mapstructure:"exclude_serializer_none_fields"`
	AdminHasAddPermission         bool             `mapstructure:"admin_has_add_permission"`
	AdminHasChangePermission      bool             `mapstructure:"admin_has_change_permission"`
	AdminHasDeletePermission      bool             `mapstructure:"admin_has_delete_permission"`
	AuthenticatedUserThrottleRate string           `mapstructure:"authenticated_user_throttle_rate"`
	StaffUserThrottleRate         string           `mapstructure:"staff_user_throttle_rate"`
	OrderingFields                []string         `mapstructure:"ordering_fields"`
	SearchFields                  []string         `mapstructure:"search_fields"`
	Pagination                    PaginationConfig `mapstructure:"pagination"`
	AdminListPerPage              int              `mapstructure:"admin_list_per_page"`
	RetentionDays                 int              `mapstructure:"retention_days"`
	RetentionCron                 string           `mapstructure:"retention_cron"`
}

// 全局配置实例，热加载时整体替换，读写都经过原子指针避免竞态
var globalConfig atomic.Pointer[Config]

// setDefaults 设置通知模块的默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "notification-api")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.port", 8080)

	v.SetDefault("notification.api_prefix", "/api")
	v.SetDefault("notification.include_soft_delete", true)
	v.SetDefault("notification.include_hard_delete", false)
	v.SetDefault("notification.allow_list", true)
	v.SetDefault("notification.allow_retrieve", true)
	v.SetDefault("notification.include_serializer_full_details", false)
	v.SetDefault("notification.exclude_serializer_none_fields", false)
	v.SetDefault("notification.admin_has_add_permission", false)
	v.SetDefault("notification.admin_has_change_permission", false)
	v.SetDefault("notification.admin_has_delete_permission", false)
	v.SetDefault("notification.authenticated_user_throttle_rate", "30/minute")
	v.SetDefault("notification.staff_user_throttle_rate", "100/minute")
	v.SetDefault("notification.ordering_fields", []string{"id", "timestamp", "public"})
	v.SetDefault("notification.search_fields", []string{"verb", "description"})
	v.SetDefault("notification.pagination.default_limit", 10)
	v.SetDefault("notification.pagination.min_limit", 1)
	v.SetDefault("notification.pagination.max_limit", 100)
	v.SetDefault("notification.admin_list_per_page", 10)
	v.SetDefault("notification.retention_days", 0)
	v.SetDefault("notification.retention_cron", "0 0 3 * * *")
}

// Init 初始化配置
func Init(configPath string) error {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件失败: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return fmt.Errorf("解析配置文件失败: %v", err)
	}

	if err := Validate(&config); err != nil {
		return fmt.Errorf("配置校验失败: %v", err)
	}

	globalConfig.Store(&config)

	// 监听配置文件变化，变化时重新加载
	v.WatchConfig()
	v.OnConfigChange(func(in fsnotify.Event) {
		log.Println("配置文件发生变化，重新加载...")
		var newConfig Config
		if err := v.Unmarshal(&newConfig); err != nil {
			log.Printf("重新解析配置文件失败: %v\n", err)
			return
		}
		if err := Validate(&newConfig); err != nil {
			log.Printf("新配置校验失败，保留旧配置: %v\n", err)
			return
		}
		globalConfig.Store(&newConfig)
	})

	return nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return globalConfig.Load()
}

// SetConfig 替换全局配置，供测试使用
func SetConfig(cfg *Config) {
	globalConfig.Store(cfg)
}
