package router

import (
	"net/http"
	"time"

	_ "shelter-adoptions/docs"
	"shelter-adoptions/internal/adapters/locks"
	"shelter-adoptions/internal/adapters/notify"
	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"
	"shelter-adoptions/internal/middleware"
	"shelter-adoptions/internal/platform/config"
	"shelter-adoptions/internal/platform/httpclient"
	"shelter-adoptions/internal/platform/logger"
	"shelter-adoptions/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config config.Config

	// Backend nil = store en memoria sin Redis (modo dev).
	Backend *Backend
	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Notifiers extra, además de los que salen de la config.
	Notifiers []adoptions.Notifier
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
	if o.Backend == nil {
		o.Backend = NewMemoryBackend()
	}
	return o
}

func NewRouter(opts Options) http.Handler {
	opts = opts.withDefaults()
	log := opts.Logger
	st := opts.Backend.Storage

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.ActorContext)
	r.Use(middleware.AccessLog(log, opts.Metrics))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Services por módulo
	dogsSvc := dogs.NewService(st.Dogs())
	historySvc := history.NewService(st.History())
	adoptionsSvc := NewAdoptionsService(opts)

	// Rutas por módulo
	dogs.RegisterRoutes(r, dogsSvc)
	history.RegisterRoutes(r, historySvc)
	adoptions.RegisterRoutes(r, adoptionsSvc)

	return r
}

// NewAdoptionsService arma el motor con el locker y los notifiers que salen
// de la config. Lo usan el router y el comando revalidate.
func NewAdoptionsService(opts Options) *adoptions.Service {
	opts = opts.withDefaults()
	st := opts.Backend.Storage
	return adoptions.NewService(st.Applications(), st,
		adoptions.WithLocker(newLocker(opts.Config, opts.Backend)),
		adoptions.WithNotifier(newNotifier(opts, opts.Backend, opts.Logger)),
		adoptions.WithRecorder(opts.Metrics),
		adoptions.WithLogger(opts.Logger.With(map[string]any{"component": "adoptions"})),
		adoptions.WithTxTimeout(opts.Config.TxTimeout),
	)
}

// newLocker: con Redis el lock por perro vale entre instancias; sin Redis
// alcanza con el lock del proceso.
func newLocker(cfg config.Config, b *Backend) adoptions.DogLocker {
	if b.Redis != nil {
		return locks.NewRedis(b.Redis, locks.DefaultKeyPrefix, cfg.Redis.LockTTL)
	}
	return locks.NewLocal()
}

func newNotifier(opts Options, b *Backend, log logger.Logger) adoptions.Notifier {
	fan := notify.Fanout{notify.NewLog(log.With(map[string]any{"component": "notify"}))}
	if b.Redis != nil {
		fan = append(fan, notify.NewRedis(b.Redis, opts.Config.Redis.Channel))
	}
	if url := opts.Config.Notify.WebhookURL; url != "" {
		client := httpclient.New(opts.Config.Notify.WebhookTimeout)
		client.Retries = opts.Config.Notify.WebhookRetries
		client.Backoff = 250 * time.Millisecond
		fan = append(fan, notify.NewWebhook(client, url))
	}
	fan = append(fan, opts.Notifiers...)
	return fan
}
