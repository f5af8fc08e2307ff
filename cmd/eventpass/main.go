package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/eventpass/eventpass-go/credentials"
	"github.com/eventpass/eventpass-go/eventpass"
	"github.com/eventpass/eventpass-go/httpclient"
	"github.com/eventpass/eventpass-go/internal/config"
	"github.com/eventpass/eventpass-go/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "eventpass: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	flags := pflag.NewFlagSet("eventpass", pflag.ContinueOnError)
	apiURL := flags.String("api-url", "", "EventPass API base URL (overrides profile and env)")
	profilePath := flags.String("profile", "", "path to a profile config file")
	password := flags.String("password", "", "password for the login command (read from stdin when omitted)")
	page := flags.Int("page", 1, "page to fetch for list commands")
	perPage := flags.Int("per-page", 10, "page size for list commands")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.New()
	profile, err := loadProfile(*profilePath, cfg)
	if err != nil {
		return err
	}
	if *apiURL != "" {
		profile.APIURL = *apiURL
	}

	args := flags.Args()
	if len(args) == 0 {
		displayAppname(cfg.GetAppName())
		usage(flags)
		return nil
	}

	app := newApp(profile, cfg)
	return app.dispatch(args, *password, httpclient.PageRequest{Page: *page, PerPage: *perPage})
}

// app is the wired SDK: one pipeline, resource clients, session controller
// bound in as the authorizer.
type app struct {
	api  *eventpass.API
	ctrl *session.Controller
}

func newApp(profile *Profile, cfg config.Config) *app {
	client := httpclient.New(profile.APIURL,
		httpclient.WithHTTPClient(&http.Client{Timeout: cfg.GetHTTPTimeout()}))
	api := eventpass.NewAPI(client)

	store := credentials.NewFileStore(profile.CredentialDir)
	ctrl := session.New(api.Auth, store)
	client.BindAuthorizer(ctrl)

	return &app{api: api, ctrl: ctrl}
}

func usage(flags *pflag.FlagSet) {
	fmt.Println("Usage: eventpass [flags] <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login <email>          authenticate and persist the session")
	fmt.Println("  logout                 end the session locally and server-side")
	fmt.Println("  whoami                 show the current user")
	fmt.Println("  events                 list events with availability")
	fmt.Println("  venues                 list venues")
	fmt.Println("  history                list your ticket purchases")
	fmt.Println("  checkout <id> <qty>    preview an order for an event")
	fmt.Println("  buy <id> <qty>         purchase tickets for an event")
	fmt.Println()
	fmt.Println("Flags:")
	flags.PrintDefaults()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
