// Command agrodm-web serves the account, profile and project JSON API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/appengine-ltd/agrodm/internal/account"
	"github.com/appengine-ltd/agrodm/internal/config"
	"github.com/appengine-ltd/agrodm/internal/logging"
	"github.com/appengine-ltd/agrodm/internal/web"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flag.StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "listen address")
	flag.StringVar(&cfg.UsersPath, "users", cfg.UsersPath, "user data JSON file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		return
	}

	log := logging.Init(cfg.Logging("agrodm-web", version), os.Stderr)
	accounts := account.NewService(account.NewFileStore(cfg.UsersPath), account.WithLogger(log))
	server := web.NewServer(accounts, web.Options{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
	log.Info("server shut down")
}
