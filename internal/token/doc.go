// Package token mints and verifies the bearer auth tokens handed out on
// login, and decodes the short-lived "ts" freshness tokens that bound the
// replay window of every request.
//
// Two auth token formats share the [Codec] interface:
//
//   - [AffixCodec]: 20 random hex characters, base64(secretFirst + userID +
//     secretSecond), 16 random hex characters. The user id is recoverable
//     by anyone who knows the secret halves; the secret is therefore a
//     high-value credential.
//   - [HMACCodec]: an HS256 JWT whose subject is the user id, signed with
//     the same shared secret.
//
// Neither format carries a key id, so rotating the shared secret invalidates
// every outstanding token.
package token
