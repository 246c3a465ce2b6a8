package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type (
	Config struct {
		TelegramAPIToken string   `env:"TOKEN,required"`
		DefaultLanguage  string   `env:"LANG,default=en"`
		EnabledHandlers  []string `env:"HANDLERS,default=gatekeeper,reactor"`
		LogLevel         int      `env:"LOG_LEVEL,default=4"`
		DotPath          string   `env:"DOT_PATH,default=~/.ngwarden"`
		DBFile           string   `env:"DB_FILE,default=ngwarden.db"`
		MetricsAddr      string   `env:"METRICS_ADDR,default=:2112"`
		Moderation       Moderation
	}

	// Moderation holds chat defaults and engine timings. Per-chat values
	// stored in the database override the first three.
	Moderation struct {
		WarnLimit        int `env:"WARN_LIMIT,default=3"`
		AntifloodCount   int `env:"ANTIFLOOD_COUNT,default=5"`
		AntifloodSeconds int `env:"ANTIFLOOD_SECONDS,default=10"`

		DefaultMute   time.Duration `env:"DEFAULT_MUTE,default=1h"`
		FloodMute     time.Duration `env:"FLOOD_MUTE,default=5m"`
		// SuspiciousAge is inert unless the gatekeeper gets an AccountAgeFunc.
		SuspiciousAge time.Duration `env:"SUSPICIOUS_AGE,default=168h"`
		AdminCacheTTL time.Duration `env:"ADMIN_CACHE_TTL,default=5m"`
	}
)

var (
	once         sync.Once
	globalConfig = &Config{}
	globalErr    error
)

func Load() (Config, error) {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.WithError(err).Debug("no .env file loaded")
		}

		cfg := &Config{}
		envcfg := envconfig.Config{
			Lookuper: envconfig.PrefixLookuper("NG_", envconfig.OsLookuper()),
			Target:   cfg,
		}
		if err := envconfig.ProcessWith(context.Background(), &envcfg); err != nil {
			globalErr = fmt.Errorf("process env config: %w", err)
			return
		}
		dotPath, err := homedir.Expand(cfg.DotPath)
		if err != nil {
			globalErr = fmt.Errorf("expand dot path: %w", err)
			return
		}
		cfg.DotPath = dotPath
		log.Traceln("loaded config")
		globalConfig = cfg
	})
	return *globalConfig, globalErr
}

func Get() Config {
	cfg, err := Load()
	if err != nil {
		log.WithField("error", err.Error()).Error("cant load config")
	}
	return cfg
}
