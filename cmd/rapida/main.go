// rapida es el binario del servicio: levanta la API, aplica migraciones y
// corre el barrido de borrados agendados.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/davilabs/rapida/internal/cache"
	"github.com/davilabs/rapida/internal/config"
	"github.com/davilabs/rapida/internal/email"
	httpapi "github.com/davilabs/rapida/internal/http"
	"github.com/davilabs/rapida/internal/lifecycle"
	"github.com/davilabs/rapida/internal/metrics"
	"github.com/davilabs/rapida/internal/observability/logger"
	"github.com/davilabs/rapida/internal/rate"
	tokens "github.com/davilabs/rapida/internal/security/token"
	"github.com/davilabs/rapida/internal/service"
	"github.com/davilabs/rapida/internal/store"
	_ "github.com/davilabs/rapida/internal/store/adapters/all"
	"github.com/davilabs/rapida/internal/upload"
	migmysql "github.com/davilabs/rapida/migrations/mysql"
	migpg "github.com/davilabs/rapida/migrations/postgres"
)

var configPath string

func main() {
	// .env base + overrides de dev; ausencia no es error
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.dev")

	root := &cobra.Command{
		Use:          "rapida",
		Short:        "Storage core multi-engine con ciclo de vida de cuentas",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "ruta del config YAML")

	root.AddCommand(serveCmd(), migrateCmd(), sweepCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	logger.Init(logger.Config{Env: cfg.App.Env})
	return cfg, nil
}

func adapterConfig(cfg *config.Config) store.AdapterConfig {
	dsn := cfg.Storage.DSN
	if store.NormalizeDriver(cfg.Storage.Driver) == "mysql" && cfg.Storage.MySQL.DSN != "" {
		dsn = cfg.Storage.MySQL.DSN
	}
	return store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          dsn,
		URI:          cfg.Storage.Mongo.URI,
		Database:     cfg.Storage.Mongo.Database,
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
	}
}

// loginLimiter arma el rate limiter de login. Redis cuando el cache corre
// sobre Redis (el límite es global entre instancias); memoria en el resto.
func loginLimiter(cfg *config.Config) rate.Limiter {
	if cfg.Server.LoginRateMax <= 0 {
		return nil
	}
	if cfg.Cache.Kind == "redis" && cfg.Cache.Redis.Addr != "" {
		client := rdb.NewClient(&rdb.Options{
			Addr: cfg.Cache.Redis.Addr,
			DB:   cfg.Cache.Redis.DB,
		})
		return rate.NewRedisLimiter(client, "rl:login", cfg.Server.LoginRateMax, cfg.LoginRateWindow())
	}
	return rate.NewMemoryLimiter(cfg.Server.LoginRateMax, cfg.LoginRateWindow())
}

func openCache(cfg *config.Config) (cache.Client, error) {
	cc := cache.Config{Driver: cfg.Cache.Kind, Prefix: cfg.Cache.Redis.Prefix, DB: cfg.Cache.Redis.DB}
	if cfg.Cache.Kind == "redis" && cfg.Cache.Redis.Addr != "" {
		host, port, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
		if err != nil {
			return nil, fmt.Errorf("cache: redis addr %q: %w", cfg.Cache.Redis.Addr, err)
		}
		cc.Host = host
		cc.Port, _ = strconv.Atoi(port)
	}
	return cache.New(cc)
}

// runMigrations aplica el esquema del motor activo. Mongo no necesita
// migraciones (las colecciones se crean on demand); noop no tiene motor.
func runMigrations(ctx context.Context, conn store.AdapterConnection) error {
	log := logger.L().Named("migrate")

	switch conn.Name() {
	case "postgres":
		pg, ok := conn.(interface{ Pool() *pgxpool.Pool })
		if !ok {
			return fmt.Errorf("postgres connection does not expose pool")
		}
		n, err := store.MigratePostgres(ctx, pg.Pool(), migpg.FS)
		if err != nil {
			return err
		}
		log.Info("migrations applied", logger.Driver("postgres"), logger.Count(n))
	case "mysql":
		my, ok := conn.(interface{ DB() *sql.DB })
		if !ok {
			return fmt.Errorf("mysql connection does not expose db")
		}
		n, err := store.MigrateMySQL(ctx, my.DB(), migmysql.FS)
		if err != nil {
			return err
		}
		log.Info("migrations applied", logger.Driver("mysql"), logger.Count(n))
	default:
		log.Info("no migrations for driver", logger.Driver(conn.Name()))
	}
	return nil
}

type wiring struct {
	conn     store.AdapterConnection
	cache    cache.Client
	reaper   *lifecycle.Reaper
	users    *service.UserService
	profiles *service.ProfileService
	wss      *service.WorkspaceService
	invites  *service.InvitationService
	posts    *service.PostService
	uploads  *upload.Client
}

func buildWiring(ctx context.Context, cfg *config.Config) (*wiring, error) {
	log := logger.L().Named("wiring")

	conn, err := store.Open(ctx, adapterConfig(cfg))
	if err != nil {
		return nil, err
	}
	log.Info("storage connected", logger.Driver(conn.Name()))

	cc, err := openCache(cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	var notifier *email.Notifier
	if cfg.SMTP.Host != "" {
		sender := email.NewSMTPSender(email.SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromEmail: cfg.SMTP.From,
			TLSMode:   cfg.SMTP.TLS,
		})
		notifier = email.NewNotifier(sender, cfg.Invitations.AcceptURL, cfg.Auth.VerifyURL)
	}

	cascader := lifecycle.NewCascader(lifecycle.Registry(conn))
	reaper := lifecycle.NewReaper(conn.ScheduledDeletions(), conn.Users(), cascader,
		lifecycle.WithGracePeriod(cfg.GracePeriod()),
		lifecycle.WithSweepInterval(cfg.SweepInterval()),
	)

	var uploads *upload.Client
	if cfg.Uploads.Endpoint != "" {
		uploads, err = upload.New(ctx, upload.Config{
			Endpoint:  cfg.Uploads.Endpoint,
			AccessKey: cfg.Uploads.AccessKey,
			SecretKey: cfg.Uploads.SecretKey,
			Bucket:    cfg.Uploads.Bucket,
			UseSSL:    cfg.Uploads.UseSSL,
		})
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	issuer := tokens.NewInviteIssuer(cfg.Invitations.Secret, cfg.InviteTTL())
	verifier := tokens.NewVerifyIssuer(cfg.Auth.VerifySecret, cfg.VerifyTTL())

	return &wiring{
		conn:   conn,
		cache:  cc,
		reaper: reaper,
		users: service.NewUserService(service.UserDeps{
			Users:    conn.Users(),
			Cascader: cascader,
			Reaper:   reaper,
			Notifier: notifier,
			Verifier: verifier,
		}),
		profiles: service.NewProfileService(service.ProfileDeps{
			Persons:   conn.PersonProfiles(),
			Companies: conn.CompanyProfiles(),
			Cache:     cc,
		}),
		wss: service.NewWorkspaceService(service.WorkspaceDeps{
			Workspaces: conn.Workspaces(),
		}),
		invites: service.NewInvitationService(service.InvitationDeps{
			Invitations: conn.Invitations(),
			Issuer:      issuer,
			Notifier:    notifier,
		}),
		posts: service.NewPostService(service.PostDeps{
			Posts:      conn.Posts(),
			Workspaces: conn.Workspaces(),
		}),
		uploads: uploads,
	}, nil
}

func (w *wiring) close() {
	if w.cache != nil {
		_ = w.cache.Close()
	}
	_ = w.conn.Close()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP y el reaper de borrados agendados",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.L().Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := buildWiring(ctx, cfg)
			if err != nil {
				return err
			}
			defer w.close()

			if cfg.Flags.Migrate {
				if err := runMigrations(ctx, w.conn); err != nil {
					return err
				}
			}

			if err := metrics.RegisterLifecycle(nil); err != nil {
				return err
			}
			mcfg := httpapi.MetricsConfig{}
			if pg, ok := w.conn.(interface{ Pool() *pgxpool.Pool }); ok {
				mcfg.Pool = pg.Pool
			}
			metricsHandler, err := httpapi.RegisterMetrics(mcfg)
			if err != nil {
				return err
			}

			router := httpapi.NewRouter(httpapi.Deps{
				Users:              w.users,
				Profiles:           w.profiles,
				Workspaces:         w.wss,
				Invitations:        w.invites,
				Posts:              w.posts,
				Uploads:            w.uploads,
				Metrics:            metricsHandler,
				LoginLimiter:       loginLimiter(cfg),
				Ready:              w.conn.Ping,
				CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
			})

			go w.reaper.Run(ctx)

			logger.L().Info("server listening", logger.String("addr", cfg.Server.Addr))
			return httpapi.Start(ctx, cfg.Server.Addr, router)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes del motor configurado",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.L().Sync() }()

			conn, err := store.Open(cmd.Context(), adapterConfig(cfg))
			if err != nil {
				return err
			}
			defer conn.Close()

			return runMigrations(cmd.Context(), conn)
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Corre un barrido puntual de borrados agendados vencidos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.L().Sync() }()

			w, err := buildWiring(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer w.close()

			w.reaper.Sweep(cmd.Context())
			return nil
		},
	}
}
