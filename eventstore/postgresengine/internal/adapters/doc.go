// Package adapters lets the Postgres event store run on pgxpool.Pool, sql.DB (lib/pq) or sqlx.DB
// through one small DBAdapter interface.
package adapters
