package protocal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"alto-client/configs"
	"alto-client/internal/adapters/input/cli"
	"alto-client/internal/adapters/output/api"
	"alto-client/internal/adapters/output/clock"
	"alto-client/internal/adapters/output/memory"
	"alto-client/internal/adapters/output/metrics"
	redisAdapter "alto-client/internal/adapters/output/redis"
	"alto-client/internal/application"
	"alto-client/internal/domain"
	"alto-client/internal/ports/input"
	"alto-client/internal/ports/output"
	"alto-client/pkg/validator"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Run func - entry point of the alto CLI
func Run() error {
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(func(ctx context.Context, opts cli.Options) (*cli.Handler, error) {
		handler, cleanup, err := buildCLI(ctx, opts)
		closers = append(closers, cleanup...)
		return handler, err
	})
	return root.ExecuteContext(ctx)
}

// loadConfig reads .env, then the config directory
func loadConfig(path, env string) (*configs.Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file loaded")
	}
	if err := configs.InitViper(path, env); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := configs.GetViper()
	setupLogging(cfg.App)
	return cfg, nil
}

// setupLogging sends logs to stderr so they never mix with the transcript
func setupLogging(cfg configs.App) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: domain.DatetimeLayout,
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if cfg.Debug {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
}

func buildCLI(ctx context.Context, opts cli.Options) (*cli.Handler, []func(), error) {
	cfg, err := loadConfig(opts.ConfigPath, opts.Env)
	if err != nil {
		return nil, nil, err
	}
	var closers []func()

	// Wire up the hexagonal architecture layers
	// Output adapters (token storage, metrics, API)
	store, jar, closeStore, err := newTokenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	var recorder output.Recorder = output.NopRecorder{}
	if cfg.Metrics.Enabled {
		prom := metrics.NewRecorder()
		recorder = prom
		metricsCtx, cancel := context.WithCancel(ctx)
		closers = append(closers, cancel)
		go func() {
			if err := prom.Serve(metricsCtx, cfg.Metrics.Address); err != nil {
				logrus.Warnf("Metrics server stopped: %v", err)
			}
		}()
	}

	client, err := api.NewClient(cfg.API, store, jar, recorder)
	if err != nil {
		return nil, closers, err
	}

	// Application services (use cases)
	systemClock := clock.System{}
	v := validator.New()
	scheduler := application.NewRefreshScheduler(client, store, systemClock,
		time.Duration(cfg.Auth.RefreshInterval)*time.Minute, cfg.Auth.RefreshOnStart)
	closers = append(closers, scheduler.Stop)

	navigator := cli.NewNavigator(os.Stdout)
	authSrv := application.NewAuthService(client, store, scheduler, v)
	guard := application.NewRouteGuard(client, scheduler, navigator)

	defaultLevel, err := domain.ParseLevel(cfg.Interview.Level)
	if err != nil {
		logrus.Warnf("Invalid interview.level: %v, using %s", err, domain.LevelMedium)
		defaultLevel = domain.LevelMedium
	}
	settings := application.InterviewSettings{
		Level:     defaultLevel,
		RepeatRun: cfg.Interview.RepeatRun,
		MoodReset: time.Duration(cfg.Interview.MoodReset) * time.Millisecond,
	}
	newInterview := func(level domain.Level) input.InterviewController {
		s := settings
		if level != "" {
			s.Level = level
		}
		return application.NewInterviewController(client, client, navigator, recorder, systemClock, v, s)
	}

	// Input adapter (terminal)
	return cli.New(authSrv, guard, newInterview, os.Stdin, os.Stdout), closers, nil
}

// newTokenStore selects the token store. The Redis store is scoped to the parent shell so a
// session survives re-running the CLI in the same terminal but not a new one.
func newTokenStore(cfg *configs.Config) (output.TokenStore, http.CookieJar, func(), error) {
	switch strings.ToLower(cfg.Auth.TokenStore) {
	case "", "memory":
		return memory.NewTokenStore(), nil, func() {}, nil
	case "redis":
		client, err := redisAdapter.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		scope := cfg.Auth.TokenScope
		if scope == "" {
			scope = strconv.Itoa(os.Getppid())
		}
		logrus.Debugf("Using Redis token store, scope: %s", scope)
		closeClient := func() {
			if err := client.Close(); err != nil {
				logrus.Warnf("Failed to close Redis client: %v", err)
			}
		}
		return redisAdapter.NewTokenStore(client, scope), redisAdapter.NewCookieJar(client, scope), closeClient, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown auth.token_store %q (want memory or redis)", cfg.Auth.TokenStore)
	}
}
