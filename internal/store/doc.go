// Package store provides abstractions for data persistence. The scoring
// core only ever sees these interfaces: it receives plain domain records and
// returns computed rows, with no knowledge of HTTP, SQL, or the driver.
// Concrete implementations live in internal/platform/postgres.
package store
