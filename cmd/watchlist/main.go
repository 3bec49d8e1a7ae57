// Command watchlist manages the watchlist database.
// It dispatches to the initdb, forge and admin subcommands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"watchlist/internal/cli"
	"watchlist/internal/config"
	"watchlist/internal/platform/db"
	"watchlist/internal/platform/logging"
	infraredis "watchlist/internal/platform/redis"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Logs go to stderr at warn level so they do not mix with command output
	if _, err := logging.New(logging.Options{Level: "warn", Format: cfg.LogFormat}); err != nil {
		return err
	}

	target, err := db.ParseTarget(cfg.DatabaseURL, cfg.DatabaseFile)
	if err != nil {
		return err
	}
	gdb, err := db.Open(target)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx := context.Background()
	var rdb *redisv9.Client
	if cfg.RedisEnabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.RedisAddr(), cfg.RedisPassword); err != nil {
			slog.Warn("Redis unavailable. The movie cache will not be invalidated.")
		} else {
			rdb = tmp
			defer rdb.Close()
		}
	}

	app := &cli.App{Config: cfg, DB: gdb, Redis: rdb, In: os.Stdin, Out: os.Stdout}
	return app.Run(ctx, args)
}
