package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	StorageModeLocal  = "local"
	StorageModeMemory = "memory"
)

type NovaBufConfig struct {
	AppName string `mapstructure:"app_name"`

	BufferPool struct {
		NumBufs int `mapstructure:"num_bufs"`
	} `mapstructure:"bufferpool"`

	Storage struct {
		Mode    string `mapstructure:"mode"`
		Workdir string `mapstructure:"workdir"`
		Base    string `mapstructure:"base"`
	} `mapstructure:"storage"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("app_name", "novabuf")
	v.SetDefault("bufferpool.num_bufs", 64)
	v.SetDefault("storage.mode", StorageModeLocal)
	v.SetDefault("storage.workdir", "./data")
	v.SetDefault("storage.base", "pages")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// NOVABUF_BUFFERPOOL_NUM_BUFS overrides bufferpool.num_bufs, etc.
	v.SetEnvPrefix("NOVABUF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads a YAML config file. An empty path yields defaults plus
// environment overrides.
func LoadConfig(path string) (*NovaBufConfig, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg NovaBufConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *NovaBufConfig) Validate() error {
	if c.BufferPool.NumBufs <= 0 {
		return fmt.Errorf("config: bufferpool.num_bufs must be positive, got %d", c.BufferPool.NumBufs)
	}
	switch c.Storage.Mode {
	case StorageModeLocal, StorageModeMemory:
	default:
		return fmt.Errorf("config: invalid storage mode: %s", c.Storage.Mode)
	}
	if c.Storage.Mode == StorageModeLocal && c.Storage.Workdir == "" {
		return fmt.Errorf("config: storage.workdir is required in %s mode", StorageModeLocal)
	}
	return nil
}
