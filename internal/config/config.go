package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Pacifica PacificaConfig `mapstructure:"pacifica"`
}

type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

type PacificaConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	WSURL           string `mapstructure:"ws_url"`
	WalletAddress   string `mapstructure:"wallet_address"`
	AgentPrivateKey string `mapstructure:"agent_private_key"`
}

func LoadConfig(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
