package instrumentation

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	for _, key := range []string{
		"OTEL_SERVICE_NAME", "INSTRUMENTATION_ENABLED", "METRICS_EXPORTER",
		"TRACING_EXPORTER", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"AUDIT_LOGGING_ENABLED", "AUDIT_LOGGING_INCLUDE_PII",
	} {
		t.Setenv(key, "")
	}

	config := DefaultConfig()

	if config.ServiceName != "gmaildrafter" {
		t.Errorf("ServiceName = %q, want %q", config.ServiceName, "gmaildrafter")
	}
	if !config.Enabled {
		t.Error("Enabled should default to true")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterPrometheus)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterNone)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %f, want 0.1", config.TraceSamplingRate)
	}
	if !config.AuditLogging.Enabled {
		t.Error("AuditLogging.Enabled should default to true")
	}
	if config.AuditLogging.IncludePII {
		t.Error("AuditLogging.IncludePII should default to false")
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "drafter-test")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "otlp")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	t.Setenv("AUDIT_LOGGING_INCLUDE_PII", "true")

	config := DefaultConfig()

	if config.ServiceName != "drafter-test" {
		t.Errorf("ServiceName = %q, want %q", config.ServiceName, "drafter-test")
	}
	if config.MetricsExporter != ExporterStdout {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterStdout)
	}
	if config.TracingExporter != ExporterOTLP {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterOTLP)
	}
	if config.OTLPEndpoint != "localhost:4318" {
		t.Errorf("OTLPEndpoint = %q, want %q", config.OTLPEndpoint, "localhost:4318")
	}
	if !config.AuditLogging.IncludePII {
		t.Error("AuditLogging.IncludePII should be true")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid prometheus config",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 0.1,
			},
			wantErr: false,
		},
		{
			name: "valid otlp config",
			config: Config{
				MetricsExporter:   ExporterOTLP,
				TracingExporter:   ExporterOTLP,
				OTLPEndpoint:      "localhost:4318",
				TraceSamplingRate: 1.0,
			},
			wantErr: false,
		},
		{
			name: "invalid metrics exporter",
			config: Config{
				MetricsExporter:   "graphite",
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 0.1,
			},
			wantErr: true,
		},
		{
			name: "invalid tracing exporter",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   "jaeger",
				TraceSamplingRate: 0.1,
			},
			wantErr: true,
		},
		{
			name: "sampling rate out of range",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 1.5,
			},
			wantErr: true,
		},
		{
			name: "otlp metrics without endpoint",
			config: Config{
				MetricsExporter:   ExporterOTLP,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 0.1,
			},
			wantErr: true,
		},
		{
			name: "otlp tracing without endpoint",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterOTLP,
				TraceSamplingRate: 0.1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	t.Setenv("TEST_BOOL_VAL", "not-a-bool")
	if got := getEnvBoolOrDefault("TEST_BOOL_VAL", true); !got {
		t.Error("unparseable value should fall back to default")
	}

	t.Setenv("TEST_BOOL_VAL", "false")
	if got := getEnvBoolOrDefault("TEST_BOOL_VAL", true); got {
		t.Error("explicit false should override default")
	}
}

func TestGetEnvFloatOrDefault(t *testing.T) {
	t.Setenv("TEST_FLOAT_VAL", "0.5")
	if got := getEnvFloatOrDefault("TEST_FLOAT_VAL", 0.1); got != 0.5 {
		t.Errorf("got %f, want 0.5", got)
	}

	t.Setenv("TEST_FLOAT_VAL", "much")
	if got := getEnvFloatOrDefault("TEST_FLOAT_VAL", 0.1); got != 0.1 {
		t.Errorf("got %f, want default 0.1", got)
	}
}
