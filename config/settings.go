package config

// Flag-backed defaults for the CLI surface. Environment overrides from
// core/config win at load time; flags win over both. Runtime tuning
// (reconciliation windows, socket backoff, worker pool sizing) lives in
// core/config only.
var (
	AppPort  = "3000"
	AppDebug = false

	AppBasicAuthCredential []string
	AppBasePath            = ""
	AppTrustedProxies      []string

	// Evolution gateway
	EvolutionBaseURL  = "http://localhost:8080"
	EvolutionAPIKey   = ""
	EvolutionInstance = "default"
)
