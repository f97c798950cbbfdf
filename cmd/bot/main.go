package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/chathandevog-hash/Malti-Function-Bot/core/bootstrap"
	corecmd "github.com/chathandevog-hash/Malti-Function-Bot/core/cmd"
	coreconfig "github.com/chathandevog-hash/Malti-Function-Bot/core/config"
	coredatabase "github.com/chathandevog-hash/Malti-Function-Bot/core/database"
	"github.com/chathandevog-hash/Malti-Function-Bot/core/logger"
	"github.com/chathandevog-hash/Malti-Function-Bot/internal/bot"
	"github.com/chathandevog-hash/Malti-Function-Bot/internal/health"
	"log/slog"
)

type loadedConfig struct {
	core *coreconfig.Config
	db   coredatabase.Config
}

func (c *loadedConfig) CoreConfig() *coreconfig.Config { return c.core }

func main() {
	// Local development convenience; deployments set real env vars.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			core, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			dbCfg, err := coredatabase.LoadConfig(path)
			if err != nil {
				return nil, err
			}
			return &loadedConfig{core: core, db: dbCfg}, nil
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg := carrier.(*loadedConfig)

			res, err := bootstrap.Run(bootstrap.Options{
				Config:   cfg.core,
				Database: cfg.db,
			})
			if err != nil {
				return nil, err
			}

			if cfg.core.Health.Enabled {
				go func() {
					if err := health.Serve(cfg.core.Health.Listen, cfg.core.Health.Port); err != nil {
						logger.Health.Error("health endpoint failed",
							slog.String("event", "health.fail"),
							slog.String("err", err.Error()),
						)
					}
				}()
			}

			return bot.New(cfg.core, res.DB), nil
		},
	})
	if err != nil {
		log.Fatalf("bot exited: %v", err)
	}
}
