// Package bolt implements the store interfaces on an embedded bbolt file,
// for single-node deployments that do not want a PostgreSQL server.
//
// Records are CBOR-encoded. Every mutation runs in one bbolt Update
// transaction, so a check and the write that depends on it are atomic.
package bolt
