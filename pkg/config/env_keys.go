package config

// EnvPrefix is passed to envconfig; variable names are fully qualified in the
// struct tags, so the prefix only matters for variables without a tag.
const EnvPrefix = "quickkart"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "QUICKKART_DB_DSN"
	EnvDBHost = "QUICKKART_DB_HOST"
	EnvDBUser = "QUICKKART_DB_USER"
	EnvDBName = "QUICKKART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
