// Package service orchestrates the scoring core: it loads activity windows
// through the store interfaces, runs the pure computations in domain/echo
// and domain/selector, and persists the results. All per-user work is
// serialized through a keyed lock so stats increments, score-history
// appends, and daily selections never race for the same user, while
// different users remain fully independent.
package service
