// Package kv is the durable key-value boundary of the tablekeeper client.
//
// Values are opaque blobs; the session store keeps JSON documents under
// the "user" and "users" keys. The SQLite implementation reads and writes
// the kv table created by the embedded migrations:
//
//	CREATE TABLE kv (
//	    key   TEXT PRIMARY KEY,
//	    value BLOB NOT NULL
//	);
//
// Every call is synchronous: when Set or Atomic returns nil the data has
// been committed to the database.
//
// # Errors
//
// Driver failures are wrapped with the operation and key, for example
// "failed to set kv[users]: ...". A missing key is not an error.
package kv
