// Package validator accumulates and reports the problems airc finds
// while checking descriptor documents and materialized server
// definitions.
//
// Validation passes append issues to a shared [Result] instead of
// stopping at the first failure, so one run can surface everything
// wrong with ai.json and its extends chain at once. A [Reporter] then
// renders the result as text for terminals or JSON for tooling.
package validator
