package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// NumberingConfig holds tenant-independent invoice numbering defaults.
// Tenants override the prefix per record; pad width is global so numbers
// stay lexicographically sortable across the installation.
type NumberingConfig struct {
	DefaultPrefix string `mapstructure:"defaultPrefix"`
	PadWidth      int    `mapstructure:"padWidth"`
}

func DefaultNumberingConfig() NumberingConfig {
	return NumberingConfig{
		DefaultPrefix: "INV",
		PadWidth:      6,
	}
}

type NumberingConfigHolder struct {
	current atomic.Value // holds NumberingConfig
}

func NewNumberingConfigHolder() (*NumberingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("numbering")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/facturo/config") // Volume-mounted config
	v.AddConfigPath("/etc/facturo")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("FACTURO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultNumberingConfig()
		v.SetDefault("numbering.defaultPrefix", defaults.DefaultPrefix)
		v.SetDefault("numbering.padWidth", defaults.PadWidth)
	}

	var cfg NumberingConfig
	if err := v.UnmarshalKey("numbering", &cfg); err != nil {
		return nil, err
	}
	if err := validateNumberingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &NumberingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated NumberingConfig
		if err := v.UnmarshalKey("numbering", &updated); err != nil {
			log.Printf("[numbering-config] reload failed: %v", err)
			return
		}
		if err := validateNumberingConfig(updated); err != nil {
			log.Printf("[numbering-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[numbering-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *NumberingConfigHolder) Get() NumberingConfig {
	return h.current.Load().(NumberingConfig)
}

func validateNumberingConfig(cfg NumberingConfig) error {
	if strings.TrimSpace(cfg.DefaultPrefix) == "" {
		return errors.New("numbering.defaultPrefix cannot be empty")
	}
	// Fixed-width suffix keeps numbers sortable. Six digits is the floor.
	if cfg.PadWidth < 6 {
		return errors.New("numbering.padWidth must be at least 6")
	}
	return nil
}
