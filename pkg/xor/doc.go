/*
Package xor provides byte-wise XOR of a data stream against a key.

In the padding oracle workflow this is the final step of CBC decryption: once the intermediate state of a block is known, XOR against the true preceding ciphertext block yields the plaintext.
Running the same step in reverse (intermediate state XOR the desired plaintext) yields the ciphertext block needed to forge a message.

# How it works:

A key is provided to the functions in this package, which will be used to apply a bitwise XOR to every byte that passes through Reader or Writer.
Once a key byte is used, the screen will progress to the next byte in the key.
When the last byte is used, the first will be used again, operating like a ring buffer.
For block work the key is normally exactly as long as the data, so no key byte is reused.
*/
package xor
