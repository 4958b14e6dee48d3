// Package idempotency makes the publish command safe to retry. A client
// submits an idempotency key with each publish; the first request to claim a
// key executes the fan-out, every later request with the same key replays the
// exact response that was saved for it. Correctness across processes rests on
// a uniqueness constraint in the store, never on in-process locks.
package idempotency
