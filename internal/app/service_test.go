package service_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/attrition/internal/adapters/loader"
	service "github.com/okian/attrition/internal/app"
	"github.com/okian/attrition/internal/domain/mode"
	"github.com/okian/attrition/internal/domain/model"
	"github.com/okian/attrition/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
}

func staticTree(files map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should report production mode and not be started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["mode"], ShouldEqual, "production")
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithMode(mode.Development))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
				So(svc.GetStats()["mode"], ShouldEqual, "development")
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And the development asset base is the root", func() {
				So(svc.AssetBasePath(), ShouldEqual, "")
			})
		})
	})

	Convey("Given a service with an unusable assets url", t, func() {
		svc := service.New(service.WithAssetsURL("not a url"))

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it fails with invalid settings", func() {
				So(errors.Is(err, loader.ErrInvalidSettings), ShouldBeTrue)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And stopping again is safe", func() {
				So(func() { svc.Stop() }, ShouldNotPanic)
			})

			Convey("And resources are refused", func() {
				_, err := svc.Resource(context.Background(), "health")
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_PageData(t *testing.T) {
	Convey("Given a production service over a static tree", t, func() {
		tree := staticTree(map[string]string{
			"/Visual-Analytics/employee.json": `[{"id":1,"name":"A"}]`,
			"/Visual-Analytics/health.json":   `{"status":"healthy"}`,
		})
		defer tree.Close()

		svc := service.New(
			service.WithMode(mode.Production),
			service.WithAssetsURL(tree.URL),
			service.WithBasePath("/Visual-Analytics"),
			service.WithRequestTimeout(2*time.Second),
			service.WithParallelFetch(false),
		)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("When loading page data without a ranking file", func() {
			pd, status := svc.PageData(context.Background())

			Convey("Then employees load and the page is degraded", func() {
				So(pd.Employees, ShouldHaveLength, 1)
				So(pd.TopEmployees, ShouldBeEmpty)
				So(status, ShouldEqual, model.PageDegraded)
			})

			Convey("And stats count the load", func() {
				stats := svc.GetStats()
				So(stats["pageLoads"], ShouldEqual, int64(1))
				So(stats["degradedLoads"], ShouldEqual, int64(1))
				So(stats["unavailableLoads"], ShouldEqual, int64(0))
			})
		})

		Convey("When fetching a single resource", func() {
			raw, err := svc.Resource(context.Background(), "health")

			Convey("Then the raw document is returned", func() {
				So(err, ShouldBeNil)
				So(string(raw), ShouldEqual, `{"status":"healthy"}`)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("When loading page data", func() {
			pd, status := svc.PageData(context.Background())

			Convey("Then the empty fallback is returned", func() {
				So(pd, ShouldResemble, model.EmptyPageData())
				So(status, ShouldEqual, model.PageUnavailable)
			})
		})
	})

	Convey("Given an injected loader whose static tree is down", t, func() {
		l, err := loader.New(loader.Settings{Mode: mode.Production, AssetsURL: "http://127.0.0.1:1"})
		So(err, ShouldBeNil)
		svc := service.New(service.WithLoader(l), service.WithLogger(logger.Nop()))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When loading page data", func() {
			pd, status := svc.PageData(context.Background())

			Convey("Then everything falls back and is counted", func() {
				So(pd, ShouldResemble, model.EmptyPageData())
				So(status, ShouldEqual, model.PageUnavailable)
				So(svc.GetStats()["unavailableLoads"], ShouldEqual, int64(1))
			})
		})
	})
}
