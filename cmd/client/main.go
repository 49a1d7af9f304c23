package main

import (
	"log"
	"log/slog"

	"github.com/gin-gonic/gin"

	"microblog-lite/internal/config"
	"microblog-lite/internal/gateway"
	"microblog-lite/internal/logging"
	"microblog-lite/internal/orchestrator"
	"microblog-lite/internal/session"
	"microblog-lite/internal/state"
	"microblog-lite/internal/view"
)

func main() {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Init(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}
	gin.SetMode(cfg.GinMode)

	tokens, err := session.Open(cfg.SessionFile)
	if err != nil {
		log.Fatal(err)
	}

	gw := gateway.New(cfg.APIBaseURL, tokens)
	defer gw.Close()

	posts := state.NewPostStore(state.UpdatePolicy(cfg.UpdatePolicy), cfg.StaleGuard)
	sess := state.NewSessionStore(tokens.Token() != "")
	orch := orchestrator.New(gw, posts, sess, tokens)

	router := view.NewRouter(view.Deps{Orchestrator: orch, Posts: posts, Session: sess})

	slog.Info("client listening", "port", cfg.Port, "backend", cfg.APIBaseURL)
	log.Fatal(view.Run(cfg, router))
}
