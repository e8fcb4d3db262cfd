package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spicemart/spicesite/config"
	"github.com/spicemart/spicesite/internal/app"
	"github.com/spicemart/spicesite/internal/siteapi"
	"github.com/spicemart/spicesite/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, seed the catalog, then exit")
	seedonly = flag.Bool("seed", false, "seed the catalog if empty, then exit")
)

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		return
	}

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(1)
	}
	defer application.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *initdb {
		application.InitDb()
		application.Bootstrap(ctx)
		return
	}

	application.Bootstrap(ctx)
	if *seedonly {
		return
	}

	ws := webserver.NewWebServer(cfg.Web)
	siteapi.New(application.Store(), application.Notifier()).Register(ws)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(ws.Start)
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down web server")
		return ws.Shutdown(context.Background())
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("web server stopped: %v", err)
	}
}
