package config

// EnvPrefix is passed to envconfig; every variable already carries the full
// TEESHIRTATE_ name in its tag, so the prefix itself stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TEESHIRTATE_DB_DSN"
	EnvDBHost = "TEESHIRTATE_DB_HOST"
	EnvDBUser = "TEESHIRTATE_DB_USER"
	EnvDBName = "TEESHIRTATE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
