package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/PabloGalante/innerguide/internal/adapters/auth"
	"github.com/PabloGalante/innerguide/internal/adapters/llm"
	"github.com/PabloGalante/innerguide/internal/adapters/notify"
	boltstore "github.com/PabloGalante/innerguide/internal/adapters/storage/bolt"
	firestorestore "github.com/PabloGalante/innerguide/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/innerguide/internal/adapters/storage/memory"
	redisstore "github.com/PabloGalante/innerguide/internal/adapters/storage/redis"
	"github.com/PabloGalante/innerguide/internal/app/companion"
	"github.com/PabloGalante/innerguide/internal/app/helplines"
	journalapp "github.com/PabloGalante/innerguide/internal/app/journal"
	"github.com/PabloGalante/innerguide/internal/app/replyflow"
	"github.com/PabloGalante/innerguide/internal/catalog"
	"github.com/PabloGalante/innerguide/internal/config"
	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

// app is everything a command needs, built once from the config.
type app struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	registry *prometheus.Registry
	metrics  *observability.Metrics

	companions *companion.Registry
	journal    *journalapp.Service
	helplines  *helplines.Directory
	feed       *notify.Feed
	identity   domain.IdentityProvider

	closers []io.Closer
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &app{
		cfg:       cfg,
		catalog:   cat,
		registry:  reg,
		metrics:   observability.NewMetrics(reg),
		helplines: helplines.NewDirectory(cat.Helplines, cat.Emergency),
		feed:      notify.NewFeed(),
	}

	if cfg.JWTSecret != "" {
		a.identity = auth.NewJWTIdentity(cfg.JWTSecret)
	} else {
		a.identity = auth.Static(cfg.DevUserID)
	}

	remote, journalStore, err := a.openStores(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	local, err := boltstore.NewStore(cfg.LocalStorePath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open local store: %w", err)
	}
	a.closers = append(a.closers, local)

	a.journal = journalapp.NewService(journalStore)
	a.companions = companion.NewRegistry(companion.Deps{
		Activities:    cat.Activities,
		Personalities: cat.Personalities,
		Remote:        remote,
		Local:         local,
		Journal:       journalStore,
		Replies:       a.replyChain(ctx),
		Notifier:      a.feed,
		Metrics:       a.metrics,
		HistoryLimit:  cfg.HistoryLimit,
	}, cfg.SessionTTL)

	return a, nil
}

func (a *app) openStores(ctx context.Context) (domain.MessageStore, domain.JournalStore, error) {
	log := observability.Logger()

	switch a.cfg.StorageBackend {
	case config.StorageFirestore:
		log.Info("using firestore storage", "project", a.cfg.GCPProjectID)
		fs, err := firestorestore.NewStore(ctx, a.cfg.GCPProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("init firestore store: %w", err)
		}
		a.closers = append(a.closers, fs)
		// 1 store, implements 2 interfaces
		return fs, fs, nil

	case config.StorageRedis:
		log.Info("using redis storage")
		rs, err := redisstore.NewStore(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("init redis store: %w", err)
		}
		a.closers = append(a.closers, rs)
		return rs, memstore.NewJournalStore(), nil

	default:
		log.Info("using in-memory storage")
		return memstore.NewMessageStore(), memstore.NewJournalStore(), nil
	}
}

// replyChain tries the configured completion provider first and always
// ends with the canned responder.
func (a *app) replyChain(ctx context.Context) *replyflow.Chain {
	log := observability.Logger()
	canned := replyflow.NewCannedResponder(replyflow.WithDelay(a.cfg.ThinkingDelay))

	if !a.cfg.CompletionConfigured() {
		log.Info("no completion credentials, replies are canned", "provider", a.cfg.LLMProvider)
		return replyflow.NewChain(a.metrics, canned)
	}

	var (
		client domain.CompletionClient
		err    error
	)
	switch a.cfg.LLMProvider {
	case config.LLMOpenAI:
		client, err = llm.NewOpenAIClient(a.cfg.OpenAIAPIKey, a.cfg.OpenAIBaseURL)
	case config.LLMVertex:
		client, err = llm.NewVertexClient(ctx, a.cfg.GCPProjectID, a.cfg.GCPLocation, a.cfg.VertexModel)
	}
	if err != nil {
		log.Error("completion client unavailable, replies are canned", "provider", a.cfg.LLMProvider, "error", err)
		return replyflow.NewChain(a.metrics, canned)
	}

	log.Info("completion provider ready", "provider", a.cfg.LLMProvider)
	return replyflow.NewChain(a.metrics, replyflow.NewCompletionResponder(client), canned)
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
