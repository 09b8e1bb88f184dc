package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/config"
	"backoffice/controllers"
	"backoffice/db"
	"backoffice/inbox"
	"backoffice/logger"
	"backoffice/orchestrator"
	"backoffice/router"
	"backoffice/store"
	"backoffice/tools"
	"backoffice/workers"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON configuration file")
	tokenFor := flag.Int64("token-for", 0, "print a 30 days API token for this reviewer id and exit")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *tokenFor > 0 {
		token, err := controllers.IssueToken(conf.Security.JwtSecret, *tokenFor, 30*24*time.Hour)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	log, err := logger.New(conf.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(conf, log); err != nil {
		log.Fatal("backoffice stopped", "error", err)
	}
}

func run(conf config.Configuration, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(conf, log)
	if err != nil {
		return err
	}
	defer database.Close()

	knowledge := store.New(database)
	chatbotConfig, err := store.NewConfigStore(database)
	if err != nil {
		return err
	}

	orch := orchestrator.New(knowledge, chatbotConfig, tools.NewRasaClient(conf.Rasa.URL, conf.Rasa.Token), orchestrator.Options{
		DataDir:    conf.Rasa.DataDir,
		ModelsDir:  conf.Rasa.ModelsDir,
		KeepModels: conf.Rasa.KeepModels,
		Prune:      tools.PruneModels,
	}, log)
	reconciler := inbox.NewReconciler(knowledge, log)

	if conf.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	router.Initialize(r, conf, database, &controllers.Services{
		Store:        knowledge,
		Config:       chatbotConfig,
		Orchestrator: orch,
		Reconciler:   reconciler,
		JwtSecret:    conf.Security.JwtSecret,
		Log:          log,
	}, log)

	srv := &http.Server{
		Addr:              ":" + conf.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return workers.Start(ctx, log, workers.Tasks(conf, workers.Deps{
			Reconciler:   reconciler,
			Feedback:     inbox.NewFeedbackMatcher(knowledge, log),
			Anonymizer:   inbox.NewAnonymizer(knowledge, conf.Retention.Years, log),
			Orchestrator: orch,
		})...)
	})
	g.Go(func() error {
		log.Info("backoffice listening", "port", conf.ApiPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
