// Package rotation enforces retention: active assets older than the
// configured age are deleted from the remote store and marked archived in
// the manifest.
//
// Each candidate is handled in isolation; one failed remote deletion is
// collected and reported without blocking the rest. Archives commit to the
// manifest per asset rather than in one batched write at the end, so a
// crash mid-rotation cannot leave an asset marked active after its remote
// object is already gone. Dry runs mutate nothing and only report the
// affected set.
package rotation
