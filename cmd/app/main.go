package main

import (
	"context"
	"os"

	"task_manager/internal/cli"
	"task_manager/internal/config"
	"task_manager/internal/db"
	"task_manager/internal/logger"
	"task_manager/internal/repository"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	repo := repository.NewTaskRepository(pool)
	menu := cli.New(repo, os.Stdin, os.Stdout)

	if err := menu.Run(context.Background()); err != nil {
		logger.Fatal("task menu failed", "error", err)
	}
}
