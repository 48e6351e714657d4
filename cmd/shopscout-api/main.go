package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/rkanzaki/shopscout/internal/adapters/http"
	"github.com/rkanzaki/shopscout/internal/adapters/llm"
	"github.com/rkanzaki/shopscout/internal/adapters/source"
	filestore "github.com/rkanzaki/shopscout/internal/adapters/storage/file"
	firestorestore "github.com/rkanzaki/shopscout/internal/adapters/storage/firestore"
	memstore "github.com/rkanzaki/shopscout/internal/adapters/storage/memory"
	pgstore "github.com/rkanzaki/shopscout/internal/adapters/storage/postgres"
	"github.com/rkanzaki/shopscout/internal/app/conversation"
	"github.com/rkanzaki/shopscout/internal/app/recommend"
	"github.com/rkanzaki/shopscout/internal/app/search"
	"github.com/rkanzaki/shopscout/internal/config"
	"github.com/rkanzaki/shopscout/internal/domain"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// LLM: mock or Gemini (useful for dev without GCP credentials)
	var (
		dialogue domain.DialogueModel
		textGen  domain.TextGenerator
	)

	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		mock := llm.NewMockLLM()
		dialogue = mock
		textGen = mock
	} else {
		log.Println("[LLM] Using Gemini LLM client")
		client, err := llm.NewGeminiClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini LLM client: %v", err)
		}
		dialogue = client
		textGen = client
	}

	// Session persistence
	var sessionStore domain.SessionStore

	switch cfg.StorageBackend {
	case "firestore":
		if cfg.GCPProjectID == "" {
			log.Fatal("SHOPSCOUT_GCP_PROJECT is required for the firestore storage backend")
		}
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		sessionStore = store

	case "postgres":
		log.Printf("[STORE] Using Postgres storage (db=%s)", cfg.PostgresDB)
		store, err := pgstore.NewStore(cfg.DSN())
		if err != nil {
			log.Fatalf("error initializing Postgres store: %v", err)
		}
		defer store.Close()
		sessionStore = store

	case "file":
		log.Printf("[STORE] Using file storage (%s)", cfg.SessionFile)
		store, err := filestore.NewStore(cfg.SessionFile)
		if err != nil {
			log.Fatalf("error initializing file store: %v", err)
		}
		sessionStore = store

	default:
		log.Println("[STORE] Using in-memory storage")
		sessionStore = memstore.NewSessionStore()
	}

	// Source adapters: Rakuten and Yahoo live, Amazon fixture-backed.
	adapters := []domain.SourceAdapter{
		source.NewRakutenAdapter(cfg.RakutenAppID, cfg.RakutenAffiliateID, nil),
		source.NewYahooAdapter(cfg.YahooAppID, nil),
		source.NewAmazonFixture(),
	}

	aggregator := search.NewAggregator(adapters, cfg.HitLimit, cfg.CallTimeout)
	extractor := recommend.NewExtractor(textGen, cfg.CallTimeout)
	explainer := recommend.NewExplainer(textGen, cfg.CallTimeout)
	pipeline := recommend.NewPipeline(aggregator, explainer)

	conv := conversation.NewService(dialogue, extractor, sessionStore, cfg.TurnThreshold, cfg.CallTimeout)

	handler := httpadapter.NewServer(conv, pipeline, aggregator, cfg.TopN)

	addr := ":" + cfg.Port
	log.Printf("shopscout-api listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("http server error: %v", err)
	}
}
