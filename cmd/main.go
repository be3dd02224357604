package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Badsnus/tabqr/cmd/bot"
	"github.com/Badsnus/tabqr/cmd/server"
	"github.com/Badsnus/tabqr/internal/adapters/config"
	setupBot "github.com/Badsnus/tabqr/internal/adapters/controller/telegram/setup"
	"github.com/Badsnus/tabqr/pkg/logger"
	"github.com/spf13/viper"

	_ "time/tzdata"
)

func main() {
	cfg := config.Get()
	defer cfg.Redis.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Start(ctx); err != nil {
			logger.Log.Errorf("Popup server failed: %v", err)
			stop()
		}
	}()

	if viper.GetBool("bot.enabled") {
		b, err := bot.New(cfg)
		if err != nil {
			log.Panic(err)
		}
		setupBot.Setup(b)

		go func() {
			<-ctx.Done()
			b.Stop()
		}()
		b.Start()
	}

	wg.Wait()
}
