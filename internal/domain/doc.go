// Package domain contains the core entities of the literacy service:
// identities, their append-only progress logs, the activity catalog, and
// the error taxonomy surfaced to callers. It is independent of any storage
// or transport.
package domain
