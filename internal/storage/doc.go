// Package storage provides the on-disk pieces of a vaultic profile.
//
// A profile directory holds three files:
//   - salt.bin: 16 raw random bytes, created once and never regenerated
//   - vault.bin: nonce || ciphertext || tag of the JSON entry document
//   - profile.db: BBolt database with non-secret profile metadata
//     (vault ID, timestamps); its file lock serializes writers
//
// The salt and vault files have no header or version marker.
// Vault writes go through a temporary file and a rename, so a crash
// never leaves a truncated vault behind.
package storage
