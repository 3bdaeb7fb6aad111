// Package search runs the depth-first branch-and-bound traversal that finds
// the largest terminal stockpile an economy can reach within a horizon.
//
// A run owns its frontier, dedup table and best-score register. Nothing is
// shared between runs, so independent economies can be searched concurrently
// by separate Engine.Run calls.
package search
