package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"ISQM/internal/auth"
	"ISQM/internal/calc/batch"
	"ISQM/internal/calc/catalog"
	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/importer"
	"ISQM/internal/calc/report"
	"ISQM/internal/config"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
	"ISQM/internal/institution"
	"ISQM/internal/logger"
	"ISQM/internal/metrics"
	"ISQM/internal/profile"
	"ISQM/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// App holds everything the router needs.
type App struct {
	Config  config.Config
	Store   repo.Repository
	Bundle  *i18n.Bundle
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

func HandleList(mux *mux.Router, app App) {
	cfg := app.Config
	registry := catalog.Registry()

	authEnv := &auth.Authenv{
		JWTkey:       []byte(cfg.TokenKey),
		Users:        app.Store,
		Profiles:     app.Store,
		Institutions: app.Store,
		Bundle:       app.Bundle,
		Log:          app.Log,
		Secure:       cfg.TLS(),
	}
	historySvc := history.NewService(app.Store, app.Log)
	historyH := &history.Handler{Service: historySvc, Bundle: app.Bundle, Log: app.Log}
	runner := &flow.Runner{Registry: registry, Saver: historySvc, Bundle: app.Bundle, Log: app.Log, Metrics: app.Metrics}
	profileSvc := &profile.Service{Profiles: app.Store, Institutions: app.Store, Log: app.Log}
	profileH := &profile.ProfileHandler{Service: profileSvc, Bundle: app.Bundle, Log: app.Log, UploadDir: cfg.UploadDir}
	institutionH := &institution.Handler{
		Directory: institution.NewDirectory(app.Store, app.Log),
		Bundle:    app.Bundle,
		Log:       app.Log,
	}
	langH := &i18n.Handler{Bundle: app.Bundle}
	batchH := &batch.Handler{Registry: registry, Bundle: app.Bundle, Metrics: app.Metrics}
	importH := &importer.Handler{Registry: registry, Bundle: app.Bundle, Log: app.Log, Metrics: app.Metrics}
	reportH := &report.Handler{Registry: registry, Bundle: app.Bundle, Log: app.Log, Metrics: app.Metrics}

	mux.Use(logger.Middleware(app.Log), app.Metrics.Middleware)
	mux.Handle("/metrics", app.Metrics.Handler()).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(authEnv.OptionalSession)

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	authAPI := api.NewRoute().Subrouter()
	authAPI.Use(limiter.LimitMiddleware)
	authAPI.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	authAPI.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	authAPI.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	api.HandleFunc("/session", authEnv.SessionHandler).Methods("GET")
	api.HandleFunc("/lang", langH.SetLang).Methods("POST")
	api.HandleFunc("/institutions", institutionH.Search).Methods("GET")
	api.HandleFunc("/tools", runner.Catalog).Methods("GET")
	api.HandleFunc("/tools/{type}/validate", runner.Validate).Methods("POST")
	api.HandleFunc("/tools/{type}/calc", runner.Calc).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/profile", profileH.GetProfile).Methods("GET")
	secureApi.HandleFunc("/profile", profileH.UpdateProfile).Methods("PATCH", "PUT")
	secureApi.HandleFunc("/upload-avatar", profileH.UploadAvatar).Methods("POST")

	secureApi.HandleFunc("/tools/batch", batchH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/tools/{type}/save", runner.Save).Methods("POST")
	secureApi.HandleFunc("/tools/{type}/import", importH.Import).Methods("POST")

	secureApi.HandleFunc("/history", historyH.List).Methods("GET")
	secureApi.HandleFunc("/history", historyH.Clear).Methods("DELETE")
	secureApi.HandleFunc("/history/export.xlsx", historyH.ExportXLSX).Methods("GET")
	secureApi.HandleFunc("/history/report.pdf", historyH.ExportPDF).Methods("GET")
	secureApi.HandleFunc("/history/{id}", historyH.Delete).Methods("DELETE")

	mux.PathPrefix("/uploads/").
		Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	authFileServer := http.FileServer(http.Dir(filepath.Join(cfg.StaticDir, "auth")))
	mux.PathPrefix("/auth/").
		Handler(authEnv.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
	profileFileServer := http.FileServer(http.Dir(filepath.Join(cfg.StaticDir, "profile")))
	mux.PathPrefix("/profile/").
		Handler(authEnv.AuthMiddleware(http.StripPrefix("/profile", profileFileServer)))
	historyFileServer := http.FileServer(http.Dir(filepath.Join(cfg.StaticDir, "history")))
	mux.PathPrefix("/history/").
		Handler(authEnv.AuthMiddleware(http.StripPrefix("/history", historyFileServer)))
	mainFileServer := http.FileServer(http.Dir(filepath.Join(cfg.StaticDir, "main")))
	mux.PathPrefix("/").
		Handler(mainFileServer)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	log, logErr := logger.New(cfg.LogLevel)
	if logErr != nil {
		panic(logErr)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	db, err := repo.OpenDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer db.Close()
	store := repo.NewPostgresDB(db)
	if err := store.Migrate(ctx); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	lang, ok := i18n.ParseLang(cfg.DefaultLang)
	if !ok {
		lang = i18n.LangMS
	}
	bundle, err := i18n.Load(lang)
	if err != nil {
		log.Fatal("catalogs", zap.Error(err))
	}

	mux := mux.NewRouter()
	HandleList(mux, App{Config: cfg, Store: store, Bundle: bundle, Log: log, Metrics: metrics.New()})
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLS()))
		var serveErr error
		if cfg.TLS() {
			serveErr = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			serveErr = server.ListenAndServe()
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error("server error", zap.Error(serveErr))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("shutdown", zap.Error(err))
	}
	log.Info("server stopped")

	wg.Wait()
}
