// Package postgres provides PostgreSQL implementations of the store
// interfaces, using database/sql over the pgx stdlib driver. All driver
// errors are mapped onto the store error taxonomy via MapError so callers
// only ever branch on store sentinels.
package postgres
