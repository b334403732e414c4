package internal

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gatherly-app/gatherly-web/internal/config"
	"github.com/gatherly-app/gatherly-web/internal/corehub"
	"github.com/gatherly-app/gatherly-web/internal/events"
	"github.com/gatherly-app/gatherly-web/internal/gifts"
	"github.com/gatherly-app/gatherly-web/internal/middleware"
	"github.com/gatherly-app/gatherly-web/internal/posts"
	"github.com/gatherly-app/gatherly-web/internal/profile"
	"github.com/gatherly-app/gatherly-web/internal/session"
	"github.com/gatherly-app/gatherly-web/internal/sso"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/tracing"
	"github.com/gatherly-app/gatherly-web/internal/trivia"
	"github.com/gatherly-app/gatherly-web/internal/vendors"
	"github.com/gatherly-app/gatherly-web/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config

	redisClient    *redis.Client
	sessionStore   *session.Store
	sessionService *session.Service
	selectedEvents *events.Store
	profileStore   *profile.Store

	publicApi  *corehub.Client
	privateApi *corehub.PrivateClient

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config         *config.Config
	VersionInfo    string
	RedisPassword  string
	TracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("gatherly", "web", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := tracing.Setup(params.TracingEnabled, "gatherly-web")
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	sessionTTL := session.DefaultTTL
	if params.Config.SessionTTLHours > 0 {
		sessionTTL = time.Duration(params.Config.SessionTTLHours) * time.Hour
	}

	sessionStore := session.NewStore(sessionTTL, rdb)
	selectedEvents := events.NewStore(sessionTTL, rdb)
	profileStore := profile.NewStore(sessionTTL)

	// visitor state survives restarts via redis
	if err := sessionStore.Hydrate(ctx); err != nil {
		log.Errorf("hydrate session store: %s", err)
	}
	if err := selectedEvents.Hydrate(ctx); err != nil {
		log.Errorf("hydrate selected events store: %s", err)
	}

	publicApi := corehub.NewClient(params.Config.APIBaseURL, tracedHttpClient)
	privateApi := corehub.NewPrivateClient(
		params.Config.APIBaseURL,
		tracedHttpClient,
		sessionStore,
		func(ctx context.Context) {
			// core API said the token is no good, drop the session so the
			// route guard sends the visitor back to login
			visitorID, ok := middleware.VisitorIDFromContext(ctx)
			if !ok {
				return
			}
			if err := sessionStore.Clear(ctx, visitorID); err != nil {
				log.Errorf("clear rejected session for visitor %s: %s", visitorID, err)
			}
		},
	)

	sessionService := session.NewService(
		sessionStore,
		publicApi,
		selectedEvents,
		profileStore,
	)

	return &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,

		redisClient:    rdb,
		sessionStore:   sessionStore,
		sessionService: sessionService,
		selectedEvents: selectedEvents,
		profileStore:   profileStore,

		publicApi:  publicApi,
		privateApi: privateApi,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gatherly-web-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "gatherly web gateway")
	}).Methods("GET").Name("root")
	r.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "sign in at POST /a/login")
	}).Methods("GET").Name("login-page")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "ok")
	}).Methods("GET").Name("health")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	sessionHandler := session.NewHandler(s.sessionService, s.metricsManager)
	sessionHandler.SetupRoutes(r, reqRateLimiter, s.config.LoginRateLimitAllowedPerMin)

	ssoHandler := sso.NewHandler(
		s.sessionService,
		s.metricsManager,
		sso.NewGoogleProvider(s.publicApi),
		sso.NewFacebookProvider(s.publicApi),
	)
	ssoHandler.SetupRoutes(r)

	eventsHandler := events.NewHandler(events.NewApi(s.privateApi), s.selectedEvents, s.metricsManager)
	eventsHandler.SetupRoutes(r)

	profileHandler := profile.NewHandler(profile.NewApi(s.privateApi), s.profileStore, s.metricsManager)
	profileHandler.SetupRoutes(r)

	giftsHandler := gifts.NewHandler(gifts.NewApi(s.privateApi), s.selectedEvents, s.metricsManager)
	giftsHandler.SetupRoutes(r)

	triviaHandler := trivia.NewHandler(trivia.NewApi(s.privateApi), s.selectedEvents, s.metricsManager)
	triviaHandler.SetupRoutes(r)

	vendorsHandler := vendors.NewHandler(vendors.NewApi(s.privateApi), s.selectedEvents, s.metricsManager)
	vendorsHandler.SetupRoutes(r)

	postsHandler := posts.NewHandler(posts.NewApi(s.privateApi), s.selectedEvents, s.metricsManager)
	postsHandler.SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.sessionStore)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.VisitorSession())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
