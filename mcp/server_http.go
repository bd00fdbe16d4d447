package mcp

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lukman83/baydeals/internal/catalog"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// HTTPOptions configures ServeHTTP.
type HTTPOptions struct {
	Addr string
	// APIKey, when set, is required as a bearer token on /mcp.
	APIKey      string
	CORSOrigins []string
}

// ServeHTTP starts the MCP server over HTTP alongside the read-only
// /deals feed and /healthz.
func ServeHTTP(svc *Service, opts HTTPOptions) error {
	streamable := server.NewStreamableHTTPServer(NewServer(svc), server.WithStateLess(true))

	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      NewRouter(svc, streamable, opts),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // scrape_store can take minutes
		IdleTimeout:  120 * time.Second,
	}

	svc.logger().Info("MCP HTTP server listening", zap.String("addr", opts.Addr))
	return srv.ListenAndServe()
}

// NewRouter mounts the routes. mcpHandler serves /mcp.
func NewRouter(svc *Service, mcpHandler http.Handler, opts HTTPOptions) http.Handler {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/deals", svc.handleDeals)

	if opts.APIKey != "" {
		mcpHandler = bearerAuth(opts.APIKey, mcpHandler)
	}
	r.Handle("/mcp", mcpHandler)
	return r
}

// handleDeals serves the catalog to the display frontend. Query parameters
// store, category, city, hot and active_on narrow the result.
func (svc *Service) handleDeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	deals, err := svc.Deals(catalog.Filter{
		Store:    q.Get("store"),
		Category: q.Get("category"),
		City:     q.Get("city"),
		HotOnly:  q.Get("hot") == "true",
		ActiveOn: q.Get("active_on"),
	})
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		svc.logger().Error("Failed to load catalog", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "catalog unavailable"})
		return
	}
	json.NewEncoder(w).Encode(deals)
}

func bearerAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mcp"`)
			http.Error(w, `{"error":"missing Authorization header"}`, http.StatusUnauthorized)
			return
		}
		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mcp", error="invalid_token"`)
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
