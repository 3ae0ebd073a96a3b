/*
Package paddown recovers the plaintext of CBC encrypted data using only a padding oracle.

A padding oracle is anything that answers one question: does this byte sequence, read as IV || ciphertext, decrypt to correctly padded data?
A server that returns a different error for bad padding than for a bad MAC or bad content is a padding oracle, and that is enough to decrypt everything it protects.

# How it works:

CBC decryption computes each plaintext block as D(C[i]) XOR C[i-1].
The value D(C[i]) is the intermediate state of the block, and it doesn't depend on C[i-1] at all.
The Engine pairs each target block with a crafted fake IV and changes one byte of the fake IV at a time until the oracle reports valid padding.
A valid padding of length n at that position means fakeIV[pos] XOR intermediate[pos] == n, which reveals intermediate[pos].
Already recovered bytes are then adjusted to produce padding n+1, and the search moves one byte to the left.

Once the intermediate state of every block is known, XOR against the true preceding ciphertext block yields the plaintext.
The first block of the input is the IV, so the recovered plaintext is one block shorter than the input.

# General guidelines:
  - Block recovery costs at most 256 oracle queries per byte, and is normally closer to 128.
  - The Engine is sequential by default. SetWorkers enables a parallel search at each byte that returns exactly what the sequential search would.
  - Use SetOracleTimeout when the oracle is backed by a slow or remote process.
  - The same block recovery can forge ciphertext for chosen plaintext, see Engine.Encrypt.
*/
package paddown
