// Package throttle implements the per-client request throttling used by the
// request gate.
//
// Every limiter satisfies [RateLimiter]. [MemoryLimiter] keeps the counters in
// process memory and is enough for a single instance. [RedisLimiter] keeps
// them in Redis so that every instance of the server shares one limit.
// [BurstLimiter] is a token bucket applied on top of the window limiter to
// the credential endpoints.
package throttle
