// Package engine implements the mnemo study-queue engine.
//
// The engine decides, for a given review scope, which items are
// eligible to study right now and in what order, subject to daily
// quotas and sibling-spacing policy. It then drives the session
// interactively: grading commits a review through the scheduler
// delegate, skip reorders the session-local queue, and undo reverses
// exactly the most recent grading commit.
//
// ARCHITECTURE:
//
// Queue construction flows one way:
//
//	scope resolver -> availability -> daily budget -> sibling policy -> queue builder
//
// The built Session is then mutated only by the Controller's grading,
// undo and skip operations.
//
// Single-Writer Discipline:
// All operations are synchronous and single-threaded. The engine
// assumes exclusive access to the Session and to scheduling state while
// it operates; the host serializes user actions. The engine is the sole
// mutator of scheduling state and log lengths during a session.
//
// Determinism:
// Every source of time and randomness is injectable: wall-clock time
// through the Clock interface, session stamps through a monotonic
// generation counter, shuffle order through a seeded rand source, and
// log-entry ids through the EntryIDGenerator. Rebuilding a queue from
// the same store contents, clock reading and seed yields the same
// queue.
//
// Fail-Open Availability:
// A malformed scheduling record (missing due on a due-based stage,
// unknown stage value) is treated as available rather than silently
// hidden from study. Unknown stages sort last.
package engine
