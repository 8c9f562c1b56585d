// Package task runs the service's scheduled background work, currently the
// nightly Echo Score recomputation for all recently active users.
package task
