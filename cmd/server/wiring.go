package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	certcache "bankeu/internal/certificate/cache"
	certhandler "bankeu/internal/certificate/handler"
	certservice "bankeu/internal/certificate/service"
	certstore "bankeu/internal/certificate/store"
	jwttoken "bankeu/internal/jwt_token"
	"bankeu/internal/platform/config"
	"bankeu/internal/platform/kafka"
	"bankeu/internal/platform/metrics"
	"bankeu/internal/platform/postgres"
	"bankeu/internal/platform/redis"
	"bankeu/internal/proposal/gate"
	proposalhandler "bankeu/internal/proposal/handler"
	proposalservice "bankeu/internal/proposal/service"
	proposalstore "bankeu/internal/proposal/store"
	"bankeu/internal/verification/aggregate"
	"bankeu/internal/verification/completion"
	verificationhandler "bankeu/internal/verification/handler"
	"bankeu/internal/verification/questionnaire"
	"bankeu/internal/verification/roster"
	verificationstore "bankeu/internal/verification/store"
	"bankeu/pkg/platform/audit/publishers/compliance"
	auditpg "bankeu/pkg/platform/audit/store/postgres"
	"bankeu/pkg/platform/circuit"
	"bankeu/pkg/platform/httputil"
	"bankeu/pkg/platform/middleware/auth"
	"bankeu/pkg/platform/middleware/metadata"
	"bankeu/pkg/platform/middleware/request"
	"bankeu/pkg/platform/middleware/requesttime"
	"bankeu/pkg/platform/outbox"
	txcontext "bankeu/pkg/platform/tx"
)

type app struct {
	router http.Handler
	relay  *outbox.Relay
	close  func()
}

// build opens the backing services and assembles the router. Redis and
// Kafka are optional; without them the gate lives in memory, verification
// is uncached and events stay in the outbox table.
func build(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	closers := []func(){func() { _ = db.Close() }}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if cfg.Database.AutoMigrate {
		if err := postgres.ApplySchema(ctx, db); err != nil {
			closeAll()
			return nil, err
		}
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		closeAll()
		return nil, err
	}
	var (
		channel proposalservice.ChannelGate = gate.NewMemoryChannel()
		cache   certservice.VerifyCache     = certcache.NewMemory(cfg.Redis.VerifyTTL)
	)
	if rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
		channel = gate.NewRedisChannel(rdb.Client)
		cache = certcache.NewGuarded(
			certcache.NewRedis(rdb.Client, cfg.Redis.VerifyTTL),
			circuit.New("verify-cache", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
			log,
		)
	} else {
		log.Warn("redis not configured; submission channel state is process-local")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	outboxStore := auditpg.New(db)
	publisher := compliance.New(outboxStore,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics(reg)),
	)

	var relay *outbox.Relay
	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		closeAll()
		return nil, err
	}
	if producer != nil {
		closers = append(closers, producer.Close)
		if err := producer.EnsureTopic(ctx, cfg.Kafka.Partitions, 1); err != nil {
			log.Warn("kafka topic bootstrap failed", "topic", cfg.Kafka.Topic, "error", err)
		}
		relay, err = outbox.New(outboxStore, producer,
			outbox.WithLogger(log),
			outbox.WithBatchSize(cfg.Kafka.RelayBatch),
			outbox.WithInterval(cfg.Kafka.RelayInterval),
		)
		if err != nil {
			closeAll()
			return nil, err
		}
	} else {
		log.Warn("kafka not configured; workflow events stay in the outbox")
	}

	router := routes(db, cfg, log, m, channel, cache, publisher, rdb)
	mux := chi.NewRouter()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Mount("/", router)

	return &app{router: mux, relay: relay, close: closeAll}, nil
}

func routes(db *sql.DB, cfg config.Config, log *slog.Logger, m *metrics.Metrics,
	channel proposalservice.ChannelGate, cache certservice.VerifyCache, publisher *compliance.Publisher, rdb *redis.Client) http.Handler {
	tx := txcontext.NewSQLRunner(db)

	proposals := proposalstore.NewPostgres(db)
	proposalSvc := proposalservice.New(proposals, tx, channel, gate.NewPostgresCoverLetters(db),
		proposalservice.WithLogger(log),
		proposalservice.WithMetrics(m),
		proposalservice.WithEventPublisher(publisher),
	)

	verification := verificationstore.NewPostgres(db)
	registry := roster.New(verification, proposals, tx,
		roster.WithLogger(log),
		roster.WithEventPublisher(publisher),
	)
	questionnaires := questionnaire.New(verification, registry, proposals, tx,
		questionnaire.WithLogger(log),
		questionnaire.WithMetrics(m),
		questionnaire.WithEventPublisher(publisher),
		questionnaire.WithStrictChecklist(cfg.Workflow.StrictChecklist),
	)
	aggregator := aggregate.New(registry, verification, proposals, aggregate.WithLogger(log))
	validator := completion.New(registry, verification, proposals, completion.WithLogger(log))

	ledger := certservice.NewLedger(certstore.NewPostgres(db), proposals, tx,
		certservice.WithLogger(log),
		certservice.WithMetrics(m),
		certservice.WithEventPublisher(publisher),
		certservice.WithVerifyCache(cache),
	)
	finalizer := certservice.NewFinalizer(ledger, proposals, aggregator, validator, log)
	certificates := certhandler.New(finalizer, ledger, log)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(log))
	r.Use(request.Recovery(log))
	r.Use(request.Timeout(cfg.Server.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "component": "postgres"})
			return
		}
		if rdb != nil {
			if err := rdb.Health(req.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "component": "redis"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	certificates.RegisterPublic(r)

	validatorJWT := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer))
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireActor(validatorJWT, log))
		proposalhandler.New(proposalSvc, log).Register(r)
		verificationhandler.New(registry, questionnaires, aggregator, validator, log).Register(r)
		certificates.Register(r)
	})
	return r
}
