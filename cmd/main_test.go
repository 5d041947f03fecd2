package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/attrition/internal/config"
	"github.com/okian/attrition/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func writeTree(dir string, files map[string]string) {
	for name, body := range files {
		convey.So(os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600), convey.ShouldBeNil)
	}
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// newFront serves whatever mux is current. The loader reads the static
// tree back over HTTP, so the listener must exist before the service does.
func newFront(current *atomic.Pointer[http.ServeMux]) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux := current.Load()
		if mux == nil {
			http.NotFound(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	}))
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a production process serving its own static tree", t, func() {
		dir := t.TempDir()
		writeTree(dir, map[string]string{
			"employee.json":      `[{"id":1},{"id":2}]`,
			"top_employees.json": `[{"employee_index":1,"probability":0.9,"top_features":[]}]`,
			"health.json":        `{"status":"healthy"}`,
		})

		var current atomic.Pointer[http.ServeMux]
		front := newFront(&current)
		defer front.Close()

		cfg := config.New()
		cfg.AssetsURL = front.URL
		cfg.StaticDir = dir
		cfg.RequestTimeoutMS = 2000
		convey.So(cfg.Validate(), convey.ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		svc := newService(cfg, logger.Nop())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		handler := newMux(ctx, cfg, svc)
		current.Store(handler)

		convey.Convey("When the page is requested", func() {
			w := get(handler, "/api/page")

			convey.Convey("Then both collections load from the tree", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("X-Page-Status"), convey.ShouldEqual, "ok")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"employees":[{"id":1},{"id":2}]`)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"employee_index":1`)
			})
		})

		convey.Convey("When a single resource is requested", func() {
			w := get(handler, "/api/resources/health")

			convey.Convey("Then it is proxied from the tree", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldEqual, `{"status":"healthy"}`)
			})
		})

		convey.Convey("When a resource missing from the tree is requested", func() {
			w := get(handler, "/api/resources/model-info")

			convey.Convey("Then it is not found", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})

		convey.Convey("When the static tree is requested directly", func() {
			w := get(handler, "/Visual-Analytics/employee.json")

			convey.Convey("Then it is served under the base path", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/json")
			})
		})

		convey.Convey("When the ancillary routes are requested", func() {
			convey.Convey("Then they are all registered", func() {
				convey.So(get(handler, "/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get(handler, "/stats").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get(handler, "/healthz").Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})

	convey.Convey("Given a development process whose live service is down", t, func() {
		dir := t.TempDir()
		writeTree(dir, map[string]string{
			"employee.json": `[{"id":7}]`,
		})

		var current atomic.Pointer[http.ServeMux]
		front := newFront(&current)
		defer front.Close()

		cfg := config.New()
		cfg.Mode = "development"
		cfg.APIURL = "http://127.0.0.1:1"
		cfg.AssetsURL = front.URL
		cfg.StaticDir = dir
		cfg.RequestTimeoutMS = 2000

		svc := newService(cfg, logger.Nop())
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()
		handler := newMux(context.Background(), cfg, svc)
		current.Store(handler)

		convey.Convey("When the page is requested", func() {
			w := get(handler, "/api/page")

			convey.Convey("Then employees load from the root and the ranking falls back", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("X-Page-Status"), convey.ShouldEqual, "degraded")
				convey.So(w.Body.String(), convey.ShouldEqual, `{"employees":[{"id":7}],"topEmployees":[]}`+"\n")
			})
		})

		convey.Convey("When a live resource is requested", func() {
			w := get(handler, "/api/resources/health")

			convey.Convey("Then the gateway reports the service unreachable", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadGateway)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "upstream_unreachable")
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx, 10*time.Millisecond)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When no static dir is configured", func() {
			cfg := config.New()
			svc := newService(cfg, logger.Nop())
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()
			mux := newMux(context.Background(), cfg, svc)

			convey.Convey("Then the tree is not mounted", func() {
				convey.So(get(mux, "/Visual-Analytics/employee.json").Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
