// Package store provides the console's local persistence tiers.
//
// # Tiers
//
// Two tiers back the credential machinery:
//
//   - Session tier (MemoryKV): holds the cached authorization header for
//     the lifetime of the process. Nothing credential-shaped is written
//     to disk.
//
//   - Durable tier (SQLiteKV): holds the remembered username and other
//     console state across restarts. The credential itself is never
//     stored here.
//
// Both tiers satisfy the KV interface. Persistence is best-effort in the
// consumers: a failing or absent backend degrades to in-memory operation
// rather than failing the request that triggered the write.
package store
