// Package domain contains the core business entities, value objects, and
// domain logic of the Echo Score system: reading events, challenge
// submissions, per-user challenge statistics, score history rows, and daily
// challenge selections. It represents the heart of the system, independent
// of any specific infrastructure or delivery mechanism.
//
// The scoring algorithms that operate on these entities live in the
// domain/echo subpackage; the daily-challenge decision policy lives in
// domain/selector.
package domain
