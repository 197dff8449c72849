package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		ListenAddr string `mapstructure:"listen_addr"`
		APISecret  string `mapstructure:"api_secret"` // empty = auth disabled
		LogLevel   string `mapstructure:"log_level"`
	} `mapstructure:"server"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Audio struct {
		MinVolume        int `mapstructure:"min_volume"`
		MaxVolume        int `mapstructure:"max_volume"`
		VolumeDebounceMs int `mapstructure:"volume_debounce_ms"`
		SaveDebounceMs   int `mapstructure:"save_debounce_ms"`
	} `mapstructure:"audio"`
	Player struct {
		PrebufferTicks    int `mapstructure:"prebuffer_ticks"`
		MonitorIntervalMs int `mapstructure:"monitor_interval_ms"`
		ReconnectDelayMs  int `mapstructure:"reconnect_delay_ms"`
	} `mapstructure:"player"`
	Alarms struct {
		MaxAlarms            int    `mapstructure:"max_alarms"`
		CheckIntervalSeconds int    `mapstructure:"check_interval_seconds"`
		AutoStopMinutes      int    `mapstructure:"auto_stop_minutes"`
		DefaultSnoozeMinutes int    `mapstructure:"default_snooze_minutes"`
		Timezone             string `mapstructure:"timezone"`
	} `mapstructure:"alarms"`
}

func Load() *Config {
	viper.SetEnvPrefix("CLOCKWAVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("server.listen_addr")
	viper.BindEnv("server.api_secret")
	viper.BindEnv("server.log_level")
	viper.BindEnv("database.path")
	viper.BindEnv("audio.min_volume")
	viper.BindEnv("audio.max_volume")
	viper.BindEnv("audio.volume_debounce_ms")
	viper.BindEnv("audio.save_debounce_ms")
	viper.BindEnv("player.prebuffer_ticks")
	viper.BindEnv("player.monitor_interval_ms")
	viper.BindEnv("player.reconnect_delay_ms")
	viper.BindEnv("alarms.max_alarms")
	viper.BindEnv("alarms.check_interval_seconds")
	viper.BindEnv("alarms.auto_stop_minutes")
	viper.BindEnv("alarms.default_snooze_minutes")
	viper.BindEnv("alarms.timezone")

	// Defaults
	viper.SetDefault("server.listen_addr", ":8080")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("database.path", "clockwave.db")
	viper.SetDefault("audio.min_volume", 0)
	viper.SetDefault("audio.max_volume", 100)
	viper.SetDefault("audio.volume_debounce_ms", 50)
	viper.SetDefault("audio.save_debounce_ms", 1000)

	// Player Defaults: 30 x 100ms = 3 seconds of prebuffering
	viper.SetDefault("player.prebuffer_ticks", 30)
	viper.SetDefault("player.monitor_interval_ms", 100)
	viper.SetDefault("player.reconnect_delay_ms", 500)

	viper.SetDefault("alarms.max_alarms", 10)
	viper.SetDefault("alarms.check_interval_seconds", 5)
	viper.SetDefault("alarms.auto_stop_minutes", 5)
	viper.SetDefault("alarms.default_snooze_minutes", 5)
	viper.SetDefault("alarms.timezone", "Local")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/clockwave/")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	return &cfg
}
