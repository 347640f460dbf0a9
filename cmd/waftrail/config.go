package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/waftrail/waftrail/internal/geoip"
	"github.com/waftrail/waftrail/internal/model"
)

// cliConfig holds the tool's configuration, loadable from file, environment,
// or flags.
type cliConfig struct {
	Skin        string        `mapstructure:"skin"`
	IPAPI       bool          `mapstructure:"ip-api"`
	GeoEndpoint string        `mapstructure:"geo-endpoint"`
	GeoTimeout  time.Duration `mapstructure:"geo-timeout"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("WAFTRAIL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("skin", model.DefaultSkin)
	v.SetDefault("ip-api", true)
	v.SetDefault("geo-endpoint", geoip.DefaultEndpoint)
	v.SetDefault("geo-timeout", geoip.DefaultTimeout)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "waftrail", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
