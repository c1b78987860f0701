package config

// EnvPrefix is passed to envconfig; variable names carry the full ROPERO_
// prefix in their tags so the prefix here stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "ROPERO_DB_DSN"
	EnvDBHost = "ROPERO_DB_HOST"
	EnvDBUser = "ROPERO_DB_USER"
	EnvDBName = "ROPERO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
