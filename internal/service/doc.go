// Package service implements the application operations: credential
// management, the progress ledger, and the activity catalog. Services depend
// only on the store interfaces and return errors that match the domain
// sentinels, so transports can classify them with domain.KindOf.
package service
