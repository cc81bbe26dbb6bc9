// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"` // required channel username, e.g. @mychannel
	AdminID int64  `yaml:"admin_id"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type MailTMConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type BroadcastConfig struct {
	Workers int `yaml:"workers"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	HTTP      HTTPConfig      `yaml:"http"`
	MailTM    MailTMConfig    `yaml:"mailtm"`
	Log       LogConfig       `yaml:"log"`
	Broadcast BroadcastConfig `yaml:"broadcast"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.HTTP.Port <= 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.MailTM.BaseURL == "" {
		cfg.MailTM.BaseURL = "https://api.mail.tm"
	}
	if cfg.MailTM.Timeout <= 0 {
		cfg.MailTM.Timeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Broadcast.Workers <= 0 {
		cfg.Broadcast.Workers = 4
	}

	// Minimal validation; any of these missing is startup-fatal.
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Bot.Channel == "" {
		return nil, errors.New("bot.channel is required")
	}
	if cfg.Bot.AdminID == 0 {
		return nil, errors.New("bot.admin_id is required")
	}
	if !strings.HasPrefix(cfg.Bot.Channel, "@") {
		cfg.Bot.Channel = "@" + cfg.Bot.Channel
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
