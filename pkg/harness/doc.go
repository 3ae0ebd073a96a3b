/*
Package harness provides a local AES-CBC padding oracle.

The Oracle holds a secret key, encrypts messages with PKCS#7 padding, and answers only whether a given ciphertext decrypts to correctly padded data.
This is the behavior of a vulnerable server reduced to a function call, which makes it suitable for tests and demonstrations of the paddown engine.

Keys may be random, given directly, or derived from a passphrase with scrypt using a KeyGenerator.
*/
package harness
