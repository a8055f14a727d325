// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver. Schema changes ship as goose migrations embedded
// in the binary; see Migrate.
package postgres
