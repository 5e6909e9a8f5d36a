package constants

const (
	EnvLogLevel           = "PREDYLOGIC_LOG_LEVEL"
	EnvDebug              = "PREDYLOGIC_DEBUG"
	EnvOtelEnabled        = "PREDYLOGIC_OTEL_ENABLED"
	EnvOtelEndpoint       = "PREDYLOGIC_OTEL_ENDPOINT"
	EnvOtelProtocol       = "PREDYLOGIC_OTEL_PROTOCOL"
	EnvOtelTraceExecution = "PREDYLOGIC_OTEL_TRACE_EXECUTION"
	EnvConfigPath         = "PREDYLOGIC_CONFIG"
)
