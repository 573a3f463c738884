package constants

const (
	CookieKeySecretToken = "solarcalc_admin"
	CtxKeyRequestID      = "request_id"
	HeaderRequestID      = "X-Request-ID"
)

// viper keys
const (
	ViperHTTPAddrKey            = "http.addr"
	ViperHTTPAllowOriginsKey    = "http.allow_origins"
	ViperHTTPShutdownTimeoutKey = "http.shutdown_timeout"

	ViperPostgresDSNKey            = "postgres.dsn"
	ViperPostgresConnectRetriesKey = "postgres.connect_retries"
	ViperPostgresMaxConnsKey       = "postgres.max_conns"

	ViperLogLevelKey    = "log.level"
	ViperLogEncodingKey = "log.encoding"

	ViperSecretKey          = "admin.secret"
	ViperTokenSigningKey    = "admin.signing_key"
	ViperTokenTTLKey        = "admin.token_ttl"
	ViperIncludeEpsilon     = "calc.include_epsilon"
	ViperHistoryLimitKey    = "calc.history_limit"
	ViperDefaultRateMode    = "calc.default_rate_mode"
	ViperModelR2Key         = "calc.model_r2"
	ViperModelRMSEKey       = "calc.model_rmse"
	ViperRejectTierGaps     = "rates.reject_gaps"
	ViperRatesImportURL     = "rates.import_url"
	ViperRatesImportRetries = "rates.import_retries"
)

// Rate modes for the calculator.
const (
	RateModeFlat   = "flat"
	RateModeTiered = "tiered"
)
