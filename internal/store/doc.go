// Package store defines the persistence contracts for identities, progress
// logs, and the activity catalog. Backends live under internal/platform and
// translate their driver errors into the sentinels declared here.
package store
