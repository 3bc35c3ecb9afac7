package observability

import (
	"github.com/IBM/pgxpoolprometheus"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPostgresPool exports connection pool statistics for the PostgreSQL backend.
func RegisterPostgresPool(reg prometheus.Registerer, pool *pgxpool.Pool, dbName string) error {
	return reg.Register(pgxpoolprometheus.NewCollector(pool, map[string]string{"db_name": dbName}))
}
