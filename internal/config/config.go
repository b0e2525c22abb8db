package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ROULETTE"

var (
	ErrInvalidPort     = errors.New("port out of range")
	ErrInvalidInterval = errors.New("match interval must be positive")
	ErrInvalidLimit    = errors.New("queue rate limit must be positive")
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`

	MatchInterval   time.Duration `mapstructure:"match_interval"`
	MaxPairsPerTick int           `mapstructure:"max_pairs_per_tick"`
	SendBuffer      int           `mapstructure:"send_buffer"`
	QueueRateLimit  int           `mapstructure:"queue_rate_limit"`
	QueueRateWindow time.Duration `mapstructure:"queue_rate_window"`
	ICEServers      []string      `mapstructure:"ice_servers"`
}

// Flags declares the command line overrides understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("roulette", pflag.ContinueOnError)
	fs.String("env", "", "config environment, selects config/config.<env>.yaml (default $CONFIG_ENV or dev)")
	fs.Int("port", 0, "HTTP listen port")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Duration("match-interval", 0, "matchmaker tick period")
	return fs
}

// Load reads config/config.<env>.yaml, ROULETTE_* environment variables and
// any flags set in fs, in increasing priority. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	env := os.Getenv("CONFIG_ENV")
	if fs != nil {
		if e, _ := fs.GetString("env"); e != "" {
			env = e
		}
	}
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}
	if fs != nil {
		bindFlags(v, fs)
	}
	return load(v)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	for key, flag := range map[string]string{
		"port":           "port",
		"log_level":      "log-level",
		"match_interval": "match-interval",
	} {
		if f := fs.Lookup(flag); f != nil && f.Changed {
			_ = v.BindPFlag(key, f)
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("log_level", "info")
	v.SetDefault("match_interval", "5s")
	v.SetDefault("max_pairs_per_tick", 0)
	v.SetDefault("send_buffer", 32)
	v.SetDefault("queue_rate_limit", 10)
	v.SetDefault("queue_rate_window", "10s")
	v.SetDefault("ice_servers", []string{"stun:stun.l.google.com:19302"})
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Dur("match_interval", cfg.MatchInterval).
		Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if c.MatchInterval <= 0 {
		return ErrInvalidInterval
	}
	// queue_rate_limit 0 turns the join/skip limiter off.
	if c.QueueRateLimit < 0 || (c.QueueRateLimit > 0 && c.QueueRateWindow <= 0) {
		return ErrInvalidLimit
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 32
	}
	if c.Secret == "" {
		c.Secret = uuid.NewString()
		log.Warn().Str("module", "config").Msg("no session secret set, visitor cookies will not survive a restart")
	}
	return nil
}
