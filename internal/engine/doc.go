// Package engine implements the 2D gravitational simulation core.
//
// An [Engine] owns a registry of point-mass bodies and advances them with
// [Engine.Step], which runs three phases in fixed order:
//
//   - force solve: pairwise softened gravity into per-body acceleration
//   - integration: semi-implicit Euler (velocity first, then position)
//   - collision resolution: overlapping bodies merge inelastically
//
// The force pass is O(n^2) over all unordered pairs. That is deliberate:
// tree approximations like Barnes-Hut change the numeric results, and the
// body counts this engine targets stay small enough for the exact pass.
//
// The engine is single-threaded and non-reentrant: a host drives it from
// one goroutine and must not begin a Step before the previous one returns.
// It holds no camera, rendering, or persistence state.
package engine
