// Package core provides the vaultic vault operations.
//
// A Vault is opened with a master passphrase and a set of paths.Locations.
// Opening creates the profile directory, loads or creates the salt, and
// derives the key; the passphrase itself is not checked until the vault
// file is read.
//
// Every operation reads the whole vault file, works on a transient
// in-memory document, and writes the whole file back when it changes.
// Nothing is cached between calls:
//   - Read / Write: full document access
//   - AddEntry / RemoveEntry: read-modify-write, last writer wins
//   - GetEntry / ListServices: read only
//   - VerifyPassphrase: Read with the result discarded
//
// A missing vault file reads as an empty document, so any passphrase
// verifies until the first entry is stored.
package core
