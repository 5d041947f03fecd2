package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// counterValue sums every series of a counter family whose labels include want.
func counterValue(reg prometheus.Gatherer, name string, want map[string]string) float64 {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if hasLabels(m, want) {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func hasLabels(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created with defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.loaderFetches.WithLabelValues("employee", "production", "ok").Inc()

			Convey("Then options are applied", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				So(counterValue(registry, "test_namespace_test_subsystem_loader_fetches_total",
					map[string]string{"env": "test", "resource": "employee"}), ShouldEqual, 1)
			})
		})

		Convey("When registering twice on the same registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then it panics on duplicate collectors", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestLoaderMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		reg := GetRegistry()

		Convey("When recording fetches and fallbacks", func() {
			before := counterValue(reg, "attrition_dashboard_loader_fetches_total",
				map[string]string{"resource": "top_employees", "outcome": "transport"})
			fallbacksBefore := counterValue(reg, "attrition_dashboard_loader_fallbacks_total",
				map[string]string{"resource": "top_employees", "kind": "transport"})

			RecordFetch("top_employees", "development", "transport")
			RecordFetchLatency("top_employees", 12)
			RecordFallback("top_employees", "transport")

			Convey("Then the counters move", func() {
				So(counterValue(reg, "attrition_dashboard_loader_fetches_total",
					map[string]string{"resource": "top_employees", "outcome": "transport"}), ShouldEqual, before+1)
				So(counterValue(reg, "attrition_dashboard_loader_fallbacks_total",
					map[string]string{"resource": "top_employees", "kind": "transport"}), ShouldEqual, fallbacksBefore+1)
			})
		})

		Convey("When recording page loads", func() {
			before := counterValue(reg, "attrition_dashboard_page_loads_total", map[string]string{"status": "degraded"})
			RecordPageLoad("degraded", 40)

			Convey("Then the status counter moves", func() {
				So(counterValue(reg, "attrition_dashboard_page_loads_total",
					map[string]string{"status": "degraded"}), ShouldEqual, before+1)
			})
		})
	})
}

func TestHTTPAndSystemMetrics(t *testing.T) {
	Convey("Given HTTP and system recorders", t, func() {
		Convey("Then recording never panics", func() {
			So(func() {
				RecordHTTPRequest("page", "GET", "200")
				RecordHTTPRequestDuration("page", "GET", "200", 3)
				RecordErrorByEndpoint("resource", "GET", "not_found")
				RecordErrorByType("not_found", "medium")
				RecordErrorLatency("http", "not_found", 1)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}
