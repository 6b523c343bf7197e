package config

const (
	// EngineSQLite stores everything in a single sqlite file (or memory).
	EngineSQLite = "sqlite"
	// EngineMySQL uses a MySQL / MariaDB server.
	EngineMySQL = "mysql"
	// EnginePostgres uses a PostgreSQL server.
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // database name, or the file path for sqlite
	GormEngine string // sqlite, mysql or postgres
}
