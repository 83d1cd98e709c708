package service

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/srs-rtc/signal-server/pkg/variables"
	"go.uber.org/fx"
)

func database() (*sql.DB, error) {
	return sql.Open("postgres", variables.Env(variables.DATABASE_URL_NAME, variables.DATABASE_URL_DEFAULT))
}

var DatabaseModule = fx.Module("database", fx.Provide(
	database,
))
