package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Poker  PokerConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// PokerConfig 收納估點流程的行為開關
type PokerConfig struct {
	// RejectVoteAfterReveal 為 true 時，開牌後的投票會被拒絕
	// 預設 false，開牌後仍可改票且立即可見
	RejectVoteAfterReveal bool `mapstructure:"reject_vote_after_reveal"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("poker.reject_vote_after_reveal", false)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
