package observability

import (
	"fmt"
	"net"
	"strconv"

	"github.com/fulmenhq/gofulmen/telemetry"
	"github.com/fulmenhq/gofulmen/telemetry/exporters"
)

var (
	// TelemetrySystem is the global telemetry system
	TelemetrySystem *telemetry.System

	// PrometheusExporter serves metrics on its own listener; /metrics on the
	// main server proxies it.
	PrometheusExporter *exporters.PrometheusExporter

	metricsPort int
)

// defaultMetricsPort is reported when the exporter address cannot be resolved.
const defaultMetricsPort = 9090

// InitMetrics starts a Prometheus exporter on port (0 picks a free port) and
// installs the global telemetry system. namespace defaults to serviceName.
func InitMetrics(serviceName string, port int, namespace ...string) error {
	if port < 0 {
		port = 0
	}
	metricsPort = port

	metricNamespace := serviceName
	if len(namespace) > 0 && namespace[0] != "" {
		metricNamespace = namespace[0]
	}

	exporter := exporters.NewPrometheusExporter(metricNamespace, fmt.Sprintf(":%d", port))
	if err := exporter.Start(); err != nil {
		return fmt.Errorf("start prometheus exporter: %w", err)
	}
	PrometheusExporter = exporter

	if actual, err := resolvePort(exporter.GetAddr()); err == nil {
		metricsPort = actual
	} else if port == 0 {
		metricsPort = defaultMetricsPort
	}

	sys, err := telemetry.NewSystem(&telemetry.Config{
		Enabled: true,
		Emitter: exporter,
	})
	if err != nil {
		return fmt.Errorf("create telemetry system: %w", err)
	}
	TelemetrySystem = sys
	return nil
}

// ShutdownMetrics stops the exporter and clears the global telemetry state.
func ShutdownMetrics() error {
	var err error
	if PrometheusExporter != nil {
		err = PrometheusExporter.Stop()
		PrometheusExporter = nil
	}
	TelemetrySystem = nil
	metricsPort = 0
	return err
}

// GetMetricsPort returns the port the Prometheus exporter is listening on
func GetMetricsPort() int {
	return metricsPort
}

func resolvePort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(portStr)
}
