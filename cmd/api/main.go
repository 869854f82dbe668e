package main

import (
	"log"

	"resume-ranker/internal/shared/config"
	"resume-ranker/internal/shared/server"
	"resume-ranker/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	r := server.NewRouter(cfg)

	addr := server.Addr(cfg.Port)
	telemetry.Info("server.starting", map[string]any{
		"addr":       addr,
		"env":        cfg.Env,
		"free_limit": cfg.FreeLimit,
	})

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
