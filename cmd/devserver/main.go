package main

import (
	"log"
	"log/slog"

	"github.com/gin-gonic/gin"

	"microblog-lite/internal/auth"
	"microblog-lite/internal/config"
	"microblog-lite/internal/logging"
	"microblog-lite/internal/server"
	"microblog-lite/internal/store"
)

func main() {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Init(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}
	gin.SetMode(cfg.GinMode)

	st := store.New()
	tokenCfg := auth.TokenConfig{
		Secret: cfg.MasterSecret,
		Expiry: cfg.TokenExpiry,
		Issuer: "microblog-lite",
	}

	router := server.NewRouter(server.Deps{Store: st, TokenConfig: tokenCfg})
	slog.Info("devserver listening", "port", cfg.Port)
	log.Fatal(server.Run(cfg, router))
}
