// Package config loads server settings from an optional yaml file plus
// BELOTE_-prefixed environment overrides.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	TcpListenAddr string        `mapstructure:"TcpListenAddr"`
	WsListenAddr  string        `mapstructure:"WsListenAddr"`
	TrickDelay    time.Duration `mapstructure:"TrickDelay"`
	RoundDelay    time.Duration `mapstructure:"RoundDelay"`
	RequireReady  bool          `mapstructure:"RequireReady"`
	AllowVariants bool          `mapstructure:"AllowVariants"`
	LogLevel      string        `mapstructure:"LogLevel"`
	LogFile       string        `mapstructure:"LogFile"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("TcpListenAddr", ":4242")
	v.SetDefault("WsListenAddr", "")
	v.SetDefault("TrickDelay", 2*time.Second)
	v.SetDefault("RoundDelay", 5*time.Second)
	v.SetDefault("RequireReady", false)
	v.SetDefault("AllowVariants", true)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFile", "")
}

// Load reads the given config file, or only defaults and environment when
// path is empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("BELOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, err
	}
	return conf, nil
}
