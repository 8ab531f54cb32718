// Command stravad keeps a Postgres copy of the activities of athletes who
// authorized it, driven by Strava webhook events.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/kwoodhouse93/go-strava/auth"
	"github.com/kwoodhouse93/go-strava/handler"
	"github.com/kwoodhouse93/go-strava/processor"
	"github.com/kwoodhouse93/go-strava/store"
	"github.com/kwoodhouse93/go-strava/strava"
	"github.com/kwoodhouse93/go-strava/webhooks"
)

type Config struct {
	ClientID              int           `required:"true" envconfig:"STRAVA_CLIENT_ID"`
	ClientSecret          string        `required:"true" envconfig:"STRAVA_CLIENT_SECRET"`
	CallbackURL           string        `required:"true" envconfig:"STRAVA_CALLBACK_URL"`
	RedirectURL           string        `envconfig:"STRAVA_REDIRECT_URL"`
	PostgresConnectionURL string        `required:"true" envconfig:"POSTGRES_CONNECTION_URL"`
	WebhookAddr           string        `default:":8080" envconfig:"WEBHOOK_ADDR"`
	RequestTimeout        time.Duration `default:"30s" envconfig:"REQUEST_TIMEOUT"`
	ReportInterval        time.Duration `default:"15m" envconfig:"REPORT_INTERVAL"`
	EventBuffer           int           `default:"100" envconfig:"EVENT_BUFFER"`
}

func main() {
	config := Config{}
	err := envconfig.Process("", &config)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.New(config.PostgresConnectionURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Cleanup()
	err = db.EnsureSchema(ctx)
	if err != nil {
		log.Fatal(err)
	}

	api := strava.NewAPI(config.ClientID, config.ClientSecret,
		strava.WithHTTPClient(&http.Client{Timeout: config.RequestTimeout}),
	)
	tokens := auth.NewService(api,
		auth.WithPersister(db),
		auth.WithRedirectURL(config.RedirectURL),
	)

	handler := handler.New(config.EventBuffer)
	server := webhooks.NewServer(config.WebhookAddr, handler.Func())
	oauth := newOAuthHandlers(tokens, auth.ScopeRead, auth.ScopeActivityReadAll)
	server.Handle("/authorize", oauth.authorize())
	server.Handle("/exchange", oauth.exchange())

	go func() {
		err := server.Serve()
		if err != nil {
			log.Fatal(err)
		}
	}()

	subscription, err := webhooks.Subscribe(ctx, api, server, config.CallbackURL)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		err := subscription.Close(closeCtx)
		if err != nil {
			log.Println("stravad: error closing subscription:", err)
		}
	}()

	processor := processor.New(
		processor.NewStravaActivities(api, tokens),
		db,
		tokens,
		handler.Received(),
		config.ReportInterval,
		processor.WithRateLimiter(api),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		log.Println("sigint received")
		cancel()
	}()

	log.Println("starting processor")
	err = processor.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Println("stravad: processor stopped:", err)
	}
	log.Println("shutting down")
}
