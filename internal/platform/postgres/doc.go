// Package postgres implements the store interfaces over PostgreSQL using
// database/sql with the pgx stdlib driver. Every store takes a store.DBTX so
// it runs identically against a *sql.DB or a transaction.
package postgres
