package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr string `mapstructure:"HTTP_ADDR"`

	// Бэкенд хранилища: "postgres" или "file".
	Storage string `mapstructure:"STORAGE"`
	DB_URL  string `mapstructure:"DB_URL"`
	DataDir string `mapstructure:"DATA_DIR"`

	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	AdminBotToken    string `mapstructure:"ADMIN_BOT_TOKEN"`
	AdminChatID      int64  `mapstructure:"ADMIN_CHAT_ID"`
	AdminIDs         string `mapstructure:"ADMIN_IDS"` // через запятую

	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Параметры торговли.
	PayoutRate       float64 `mapstructure:"PAYOUT_RATE"`
	MinTradeDuration int     `mapstructure:"MIN_TRADE_DURATION"` // секунды
	MaxTradeDuration int     `mapstructure:"MAX_TRADE_DURATION"`

	// Фиксированный курс RUB -> USDT для обмена.
	RubUsdtRate float64 `mapstructure:"RUB_USDT_RATE"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig(path string) (config Config, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("ошибка получения абсолютного пути: %w", err)
	}

	viper.AddConfigPath(filepath.Dir(absPath))
	viper.SetConfigName(filepath.Base(absPath))
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("HTTP_ADDR", ":3000")
	viper.SetDefault("STORAGE", "postgres")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("PAYOUT_RATE", 0.015)
	viper.SetDefault("MIN_TRADE_DURATION", 30)
	viper.SetDefault("MAX_TRADE_DURATION", 600)
	viper.SetDefault("RUB_USDT_RATE", 0.012642)
	viper.SetDefault("LOG_LEVEL", "debug")

	if err := viper.ReadInConfig(); err != nil {
		return config, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	}

	if err := viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("ошибка преобразования конфига: %w", err)
	}

	return config, nil
}

// AdminIDList разбирает ADMIN_IDS в список telegram id операторов.
func (c *Config) AdminIDList() []int64 {
	var ids []int64
	for _, part := range strings.Split(c.AdminIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
