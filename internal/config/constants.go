package config

const (
	envPrefix = "CRICKET"

	defaultAddress     = ":8080"
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultMetricsPort = "9090"
	defaultRedisAddr   = "localhost:6379"
)
