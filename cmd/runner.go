package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/gameretriever/internal/changelog"
	"github.com/desertthunder/gameretriever/internal/converter"
	"github.com/desertthunder/gameretriever/internal/repositories"
	"github.com/desertthunder/gameretriever/internal/services"
	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/desertthunder/gameretriever/internal/tasks"
	"github.com/desertthunder/gameretriever/internal/ui"
	"github.com/urfave/cli/v3"
)

// SourceFactory builds the IGDB side of a refresh from stored credentials.
type SourceFactory func(creds shared.Credentials) (services.RemoteCatalog, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	logger      *log.Logger
	output      io.Writer
	httpClient  *http.Client
	db          *sql.DB
	catalog     *repositories.Catalog
	auth        services.Authenticator
	newSource   SourceFactory
	source      services.RemoteCatalog
	engine      *tasks.CatalogEngine
	pipeline    *converter.Pipeline
	changelog   *changelog.Generator
	openURL     func(string) error
	interactive bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config        *shared.Config
	ConfigPath    string
	Logger        *log.Logger
	Output        io.Writer
	HTTPClient    *http.Client
	DB            *sql.DB
	Authenticator services.Authenticator
	SourceFactory SourceFactory
	OpenURL       func(string) error
	Interactive   bool
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = defaultConfigPath
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Authenticator == nil {
		opts.Authenticator = services.NewTwitchAuthenticator(opts.Config.Credentials.Twitch.TokenURL, opts.HTTPClient)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		logger:      opts.Logger,
		output:      opts.Output,
		httpClient:  opts.HTTPClient,
		db:          opts.DB,
		catalog:     repositories.NewCatalog(opts.DB),
		auth:        opts.Authenticator,
		newSource:   opts.SourceFactory,
		openURL:     opts.OpenURL,
		interactive: opts.Interactive,
	}
	if r.newSource == nil {
		r.newSource = r.igdbSource
	}

	r.engine = tasks.NewCatalogEngine(nil, r.catalog, shared.WithLogger(r.logger, "component", "catalog"))
	r.pipeline = converter.NewPipeline(r.config.Output.ConvertersDir, shared.WithLogger(r.logger, "component", "converter"))
	r.changelog = changelog.NewGenerator(r.db, r.config.Output.ChangelogAuthor, shared.WithLogger(r.logger, "component", "changelog"))
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, platformsCommand, gamesCommand, outputCommand, wizardCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// flags are the global flags shared by every command.
func (r *Runner) flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-tui",
			Usage: "Log progress instead of showing interactive views",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// before applies the global flags.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if cmd.Bool("no-tui") {
		r.interactive = false
	}
	return ctx, nil
}

// igdbSource is the default [SourceFactory].
func (r *Runner) igdbSource(creds shared.Credentials) (services.RemoteCatalog, error) {
	return services.NewIGDBClient(services.IGDBOpts{
		BaseURL:     r.config.IGDB.BaseURL,
		Credentials: creds,
		RateLimit:   r.config.IGDB.RateLimit,
		HTTPClient:  r.httpClient,
		Logger:      shared.WithLogger(r.logger, "component", "igdb"),
	})
}

// useCredentials rebuilds the IGDB client and the engine around creds.
func (r *Runner) useCredentials(creds shared.Credentials) error {
	source, err := r.newSource(creds)
	if err != nil {
		return err
	}
	r.source = source
	r.engine = tasks.NewCatalogEngine(source, r.catalog, shared.WithLogger(r.logger, "component", "catalog"))
	return nil
}

// remoteEngine returns an engine bound to IGDB, loading stored credentials on first use.
//
// Without stored credentials it authenticates with the configured client, if any.
func (r *Runner) remoteEngine(ctx context.Context) (*tasks.CatalogEngine, error) {
	if r.source != nil {
		return r.engine, nil
	}

	creds, err := shared.LoadCredentials(r.config.Auth.File)
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated) && r.hasClientCredentials():
		r.logger.Info("no stored access token, authenticating with configured client")
		if err := r.authenticate(ctx, "", ""); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := r.useCredentials(*creds); err != nil {
			return nil, err
		}
	}
	return r.engine, nil
}

// withReauth runs op against IGDB. When IGDB rejects the token, it re-authenticates once with the
// configured client credentials and retries op exactly once.
func (r *Runner) withReauth(ctx context.Context, op func(context.Context, *tasks.CatalogEngine) error) error {
	engine, err := r.remoteEngine(ctx)
	if err != nil {
		return err
	}

	err = op(ctx, engine)
	if !errors.Is(err, shared.ErrAuthFailed) {
		return err
	}

	r.logger.Warn("IGDB rejected the access token, re-authenticating", "error", err)
	if !r.hasClientCredentials() {
		return err
	}
	if authErr := r.authenticate(ctx, "", ""); authErr != nil {
		return authErr
	}
	return op(ctx, r.engine)
}

func (r *Runner) hasClientCredentials() bool {
	twitch := r.config.Credentials.Twitch
	return twitch.ClientID != "" && twitch.ClientSecret != ""
}

// authenticate exchanges client credentials for a token, saves it and rebinds the engine.
// Empty arguments fall back to the configured client.
func (r *Runner) authenticate(ctx context.Context, clientID, clientSecret string) error {
	if clientID == "" {
		clientID = r.config.Credentials.Twitch.ClientID
	}
	if clientSecret == "" {
		clientSecret = r.config.Credentials.Twitch.ClientSecret
	}
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: set credentials.twitch in %s or TWITCH_CLIENT_ID/TWITCH_CLIENT_SECRET", shared.ErrMissingCredentials, r.configPath)
	}

	creds, err := r.auth.Authenticate(ctx, clientID, clientSecret)
	if err != nil {
		return err
	}

	if err := shared.SaveCredentials(r.config.Auth.File, creds); err != nil {
		return err
	}
	r.logger.Debug("access token saved", "path", r.config.Auth.File)

	return r.useCredentials(*creds)
}

// track runs work, showing a spinner in interactive mode and logging progress otherwise.
func (r *Runner) track(ctx context.Context, title string, work ui.Work) error {
	if r.interactive {
		return ui.RunWithSpinner(ctx, title, work, tea.WithOutput(r.output))
	}

	r.logger.Info(title)
	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range unbounded(progress) {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	err := work(ctx, progress)
	close(progress)
	<-done
	return err
}

// unbounded forwards every update received on in, queueing them while the reader is busy so
// in never fills up. The returned channel closes once in is closed and the queue is empty.
func unbounded(in <-chan tasks.ProgressUpdate) <-chan tasks.ProgressUpdate {
	out := make(chan tasks.ProgressUpdate)
	go func() {
		defer close(out)
		var queue []tasks.ProgressUpdate
		for in != nil || len(queue) > 0 {
			var send chan<- tasks.ProgressUpdate
			var next tasks.ProgressUpdate
			if len(queue) > 0 {
				send, next = out, queue[0]
			}

			select {
			case update, ok := <-in:
				if !ok {
					in = nil
					continue
				}
				queue = append(queue, update)
			case send <- next:
				queue = queue[1:]
			}
		}
	}()
	return out
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("%w: failed to write output: %v", shared.ErrIO, err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("%w: failed to write output: %v", shared.ErrIO, err)
	}
	return nil
}

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("%w: failed to write output: %v", shared.ErrIO, err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
