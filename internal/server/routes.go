package server

import (
	"log/slog"
	"net/http"

	"spacetime-server/internal/event"
	eventHandlers "spacetime-server/internal/event/handlers"
	instantHandlers "spacetime-server/internal/instant/handlers"
	"spacetime-server/internal/middleware"
	serverHandlers "spacetime-server/internal/server/handlers"
	"spacetime-server/internal/shared/database"
	"spacetime-server/internal/shared/redis"
	"spacetime-server/internal/space"
	spaceHandlers "spacetime-server/internal/space/handlers"
)

type Routes struct {
	db            *database.DB
	redis         *redis.Client
	spaceService  *space.Service
	eventService  *event.Service
	auth          *middleware.Auth
	defaultLayout string
}

func NewRoutes(db *database.DB, rdb *redis.Client, spaceService *space.Service, eventService *event.Service, auth *middleware.Auth, defaultLayout string) *Routes {
	return &Routes{
		db:            db,
		redis:         rdb,
		spaceService:  spaceService,
		eventService:  eventService,
		auth:          auth,
		defaultLayout: defaultLayout,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	spaceCount := r.spaceService.Registry().Len
	healthHandler := serverHandlers.NewHealthHandler(r.db, nil, spaceCount)
	if r.redis != nil {
		healthHandler = serverHandlers.NewHealthHandler(r.db, r.redis, spaceCount)
	}

	spaceHandler := spaceHandlers.NewSpaceHandler(r.spaceService)
	instantHandler := instantHandlers.NewInstantHandler(r.defaultLayout)
	eventHandler := eventHandlers.NewEventHandler(r.eventService)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.HandleFunc("/api/spaces/kinds", spaceHandler.GetKinds)
	mux.HandleFunc("/api/spaces/{id}", spaceHandler.GetSpace)
	mux.HandleFunc("/api/spaces/{id}/children", spaceHandler.GetChildren)
	mux.HandleFunc("/api/spaces/{id}/ancestors", spaceHandler.GetAncestors)
	mux.HandleFunc("/api/spaces/{id}/ancestors/{kind}", spaceHandler.FindAncestor)
	mux.HandleFunc("/api/spaces/{id}/relation/{other}", spaceHandler.GetRelation)
	mux.HandleFunc("/api/instants/format", instantHandler.Format)
	mux.HandleFunc("GET /api/events", eventHandler.ListEvents)
	mux.HandleFunc("/api/events/{id}", eventHandler.GetEvent)

	// Operator-only endpoints
	mux.Handle("/api/spaces", r.auth.RequireOperator(http.HandlerFunc(spaceHandler.CreateSpace)))
	mux.Handle("POST /api/events", r.auth.RequireOperator(http.HandlerFunc(eventHandler.CreateEvent)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{
			"/api/server/health", "/api/spaces/kinds", "/api/spaces/{id}", "/api/spaces/{id}/children",
			"/api/spaces/{id}/ancestors", "/api/spaces/{id}/ancestors/{kind}", "/api/spaces/{id}/relation/{other}",
			"/api/instants/format", "GET /api/events", "/api/events/{id}",
		},
		"operator_endpoints", []string{"/api/spaces", "POST /api/events"},
	)

	return mux
}

// Handler wraps the routes in the middleware chain, outermost first:
// request id, CORS, rate limiting.
func Handler(mux http.Handler, cors *middleware.CORSMiddleware, limiter *middleware.RateLimiter) http.Handler {
	return middleware.RequestID(cors.Middleware(limiter.Middleware(mux)))
}
