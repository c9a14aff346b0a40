// Package manifest persists project configuration and asset records in
// SQLite and is the single source of truth for naming counters.
//
// The Store owns database connections, schema initialization, and every
// counter mutation. RecordAsset performs the counter increment and the
// record append in one transaction, so the in-memory and on-disk views
// never diverge after it returns. Asset records are never deleted;
// rotation flips their status to archived and stamps deleted_at.
//
// A flock advisory lock next to the database serializes access across
// processes: the store is single-writer by design and a second butler
// invocation against the same manifest fails at open time.
package manifest
