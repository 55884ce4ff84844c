package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-todo-board/internal/config"
)

func MustReadEnv() {
	mustReadConfig(config.NewEnvReader())
}

func mustReadConfig(reader config.Reader) {
	cfg, err := reader.Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("store_driver", cfg.Store.Driver).
		Str("http_port", cfg.HTTP.Port).
		Msg("read env")

	config.SetGlobal(cfg)
}
