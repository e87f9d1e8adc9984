package configs

import (
	"errors"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App       `mapstructure:"app"`
	API       `mapstructure:"api"`
	Auth      `mapstructure:"auth"`
	Redis     `mapstructure:"redis"`
	Interview `mapstructure:"interview"`
	Metrics   `mapstructure:"metrics"`
	DevServer `mapstructure:"devserver"`
}

// App struct
type App struct {
	Debug    bool   `mapstructure:"debug"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// API struct - remote interview service
type API struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

// Auth struct - token lifecycle settings
type Auth struct {
	RefreshInterval int    `mapstructure:"refresh_interval"` // minutes
	RefreshOnStart  bool   `mapstructure:"refresh_on_start"`
	TokenStore      string `mapstructure:"token_store"` // memory | redis
	TokenScope      string `mapstructure:"token_scope"`
}

// Redis struct
type Redis struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Interview struct
type Interview struct {
	Level     string `mapstructure:"level"`
	RepeatRun int    `mapstructure:"repeat_run"`
	MoodReset int    `mapstructure:"mood_reset"` // milliseconds
}

// Metrics struct
type Metrics struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// DevServer struct - local stub of the interview API
type DevServer struct {
	Port       string `mapstructure:"port"`
	JWTSecret  string `mapstructure:"jwt_secret"`
	AccessTTL  int    `mapstructure:"access_ttl"`  // minutes
	RefreshTTL int    `mapstructure:"refresh_ttl"` // hours
}

var config Config

// InitViper func
func InitViper(path, env string) error {
	return getConfig(path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)
	v.SetDefault("app.env", "")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", 60)
	v.SetDefault("auth.refresh_interval", 0)
	v.SetDefault("auth.refresh_on_start", false)
	v.SetDefault("auth.token_store", "memory")
	v.SetDefault("auth.token_scope", "")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 0)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("interview.level", "medium")
	v.SetDefault("interview.repeat_run", 0)
	v.SetDefault("interview.mood_reset", 0)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", "")
	v.SetDefault("devserver.port", "8080")
	v.SetDefault("devserver.jwt_secret", "")
	v.SetDefault("devserver.access_ttl", 0)
	v.SetDefault("devserver.refresh_ttl", 0)
}

func getConfig(path, env string) error {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.AddConfigPath(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		logrus.Debugf("No config file in %s, using defaults and environment", path)
	} else {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			logrus.Infof("Config file has changed: %s", e.Name)
		})
	}

	if env != "" {
		ev := viper.New()
		ev.SetConfigName("config." + env)
		ev.AddConfigPath(path)
		if err := ev.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
		} else if err := v.MergeConfigMap(ev.AllSettings()); err != nil {
			return err
		}
		v.Set("app.env", env)
	}

	var next Config
	if err := v.Unmarshal(&next); err != nil {
		return err
	}
	config = next
	return nil
}
