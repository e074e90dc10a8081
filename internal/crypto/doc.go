// Package crypto provides the cryptographic primitives behind a vaultic vault.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from the master passphrase via scrypt
//   - 12-byte random nonce per encryption operation
//   - no associated data; output is nonce || ciphertext || tag
//
// Key derivation uses scrypt with fixed cost parameters
// (N=2^14, r=8, p=1). The parameters are not recorded anywhere in the
// vault, so changing them makes existing vaults unreadable.
//
// A wrong passphrase and a tampered blob both surface as ErrAuthFailed;
// there is no separate verification hash.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with encryption operations
package crypto
