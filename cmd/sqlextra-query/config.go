package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// config holds the file-based defaults for sqlextra-query.
// Command-line flags override any value set here.
type config struct {
	Driver  string        `mapstructure:"driver"`
	DSN     string        `mapstructure:"dsn"`
	SQL     string        `mapstructure:"sql"`
	MinTime time.Duration `mapstructure:"min_time"`
	Redis   struct {
		Addr string `mapstructure:"addr"`
		Key  string `mapstructure:"key"`
	} `mapstructure:"redis"`
}

// loadConfig reads the config file at path. An empty path returns an
// empty config.
func loadConfig(path string) (*config, error) {
	cfg := &config{}
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("driver", "sqlite3")
	v.SetDefault("redis.key", "sqlextra:log")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// merge applies flag values over the file config. Only flags the user
// actually set (per set) override; defaults fill remaining gaps.
func (c *config) merge(set map[string]bool, driver, dsn, sqlText string, minTime time.Duration, redisAddr, redisKey string) {
	if set["driver"] || c.Driver == "" {
		c.Driver = driver
	}
	if set["dsn"] || c.DSN == "" {
		c.DSN = dsn
	}
	if set["sql"] || c.SQL == "" {
		c.SQL = sqlText
	}
	if set["min-time"] {
		c.MinTime = minTime
	}
	if set["redis-addr"] {
		c.Redis.Addr = redisAddr
	}
	if set["redis-key"] || c.Redis.Key == "" {
		c.Redis.Key = redisKey
	}
}
