package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lopn/routing"
	"github.com/lopn/routing/config"
	"github.com/lopn/routing/db"
	"github.com/lopn/routing/db/postgres"
	"github.com/lopn/routing/filters"
	"github.com/lopn/routing/health"
	"github.com/lopn/routing/metrics"
)

type photo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type photoStore struct {
	mu     sync.RWMutex
	photos map[int]photo
	nextID int
}

func newPhotoStore() *photoStore {
	return &photoStore{
		photos: map[int]photo{1: {ID: 1, Title: "Harbour at dawn"}, 2: {ID: 2, Title: "Night market"}},
		nextID: 3,
	}
}

func (s *photoStore) FindByID(_ context.Context, id string) (any, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.photos[n]; ok {
		return p, nil
	}
	return nil, nil
}

func (s *photoStore) list() []photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]photo, 0, len(s.photos))
	for _, p := range s.photos {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *photoStore) add(title string) photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := photo{ID: s.nextID, Title: title}
	s.photos[p.ID] = p
	s.nextID++
	return p
}

func (s *photoStore) remove(id int) {
	s.mu.Lock()
	delete(s.photos, id)
	s.mu.Unlock()
}

// buildRouter registers the demo route table. With a DSN the photos binder
// reads the photos table instead of the in-memory store.
func buildRouter(ctx context.Context, cfg config.Config, logger *slog.Logger, collector *metrics.Collector, dsn string) (*routing.Router, func(), error) {
	store := newPhotoStore()
	var resolver routing.ModelResolver = store
	checks := health.New(health.WithTimeout(2 * time.Second))
	cleanup := func() {}

	if dsn != "" {
		conn, err := postgres.Open(ctx, dsn, db.Options{MaxOpenConns: 10, PingTimeout: 5 * time.Second})
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { _ = conn.Close() }
		pg := postgres.NewResolver(conn, "photos", []string{"id", "title"}, 2*time.Second)
		pg.DB = db.WithQueryHook(pg.DB, db.LogHook(logger))
		resolver = pg
		checks.AddReady("postgres", conn.PingContext)
	}

	controllers := routing.NewControllerRegistry()
	if err := registerControllers(controllers, store); err != nil {
		return nil, cleanup, err
	}

	r := routing.New(
		routing.WithConfig(cfg),
		routing.WithLogger(logger),
		routing.WithMetrics(collector),
		routing.WithControllerDispatcher(controllers),
	)

	filters.Register(r)
	r.Filter("auth", filters.BasicAuth(filters.BasicAuthOptions{
		Realm: "admin",
		Users: map[string]string{"admin": os.Getenv("ROUTING_ADMIN_HASH")},
	}))
	ipFilter, err := filters.IPFilter(filters.IPFilterOptions{
		Allow:        strings.Split(os.Getenv("ROUTING_ADMIN_CIDRS"), ","),
		UseForwarded: true,
	})
	if err != nil {
		return nil, cleanup, err
	}
	r.Filter("ip", ipFilter)
	r.After(func(ctx *routing.Context, _ ...string) (any, error) {
		if id := routing.RequestIDFromHeader(ctx.Request); id != "" {
			ctx.Response().Header.Set(routing.RequestIDHeader, id)
		}
		return nil, nil
	})
	r.When("photos*", "headers:Content-Type", http.MethodPost, http.MethodPut, http.MethodPatch)

	r.Pattern("photos", `[0-9]+`)
	r.Model("photos", resolver, nil)

	r.GET("/", routing.Handle(func(*routing.Context) (any, error) {
		return map[string]string{"service": "routing", "version": version}, nil
	}), routing.WithName("home"))
	r.Resource("photos", "PhotoController", routing.Except("create", "edit"))

	r.Group(routing.GroupAttributes{Prefix: "admin", As: "admin.", Namespace: []string{"Admin"}, Before: []string{"ip", "auth"}}, func(r *routing.Router) {
		r.GET("dashboard", routing.Uses("DashboardController@index"), routing.WithName("dashboard"))
	})
	checks.Routes(r)

	return r, cleanup, r.Err()
}

func registerControllers(reg *routing.ControllerRegistry, store *photoStore) error {
	err := reg.Register("PhotoController", routing.Controller{
		"index": func(*routing.Context) (any, error) {
			return store.list(), nil
		},
		"store": func(ctx *routing.Context) (any, error) {
			title := ctx.Query("title")
			if title == "" {
				title = "Untitled"
			}
			return routing.NewResponse(http.StatusCreated, store.add(title)), nil
		},
		"show": func(ctx *routing.Context) (any, error) {
			return ctx.Parameter("photos"), nil
		},
		"update": func(ctx *routing.Context) (any, error) {
			return ctx.Parameter("photos"), nil
		},
		"destroy": func(ctx *routing.Context) (any, error) {
			if p, ok := ctx.Parameter("photos").(photo); ok {
				store.remove(p.ID)
			}
			return routing.NewResponse(http.StatusNoContent, nil), nil
		},
	})
	if err != nil {
		return err
	}
	return reg.Register("Admin.DashboardController", routing.Controller{
		"index": func(ctx *routing.Context) (any, error) {
			user, _ := ctx.Get(filters.UserKey)
			return map[string]any{"user": user, "photos": len(store.list())}, nil
		},
	})
}
