// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests skip themselves when no database URL is configured, so
// the default `go test ./...` run stays hermetic.
//
// Environment variables, first non-empty wins:
//
//   - DATABASE_URL
//   - ALFA_TEST_DB_URL
//
// Typical use:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t) // skips without a database
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        identities := postgres.NewPostgresIdentityStore(tx, nil)
//	        ...
//	    })
//	}
package testdb
