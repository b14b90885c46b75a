package config

import (
	"rost/interfaces"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Discord struct {
		Token string `mapstructure:"token"`
	}
	Database struct {
		Path string `mapstructure:"path"`
	}
	Log struct {
		File string `mapstructure:"file"`
	}
	Web struct {
		Listen string `mapstructure:"listen"`
	}
	// ReconcileSchedule is a cron expression for the periodic prompt
	// reconciliation sweep. Empty disables the sweep.
	ReconcileSchedule string `mapstructure:"reconcile_schedule"`
}

var Cfg *Config

// LoadConfig reads the configuration from config.yaml.
func LoadConfig(log interfaces.Logger) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("database.path", "./rost.db")
	viper.SetDefault("log.file", "rost.log")
	viper.SetDefault("web.listen", ":8080")
	viper.SetDefault("reconcile_schedule", "@every 6h")

	if err := viper.ReadInConfig(); err != nil {
		return err
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		return err
	}

	log.Info("Configuration loaded.")
	return nil
}
