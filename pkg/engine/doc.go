// Package engine orchestrates layout passes over a scene snapshot.
//
// The engine owns the four-phase pass the rest of the system builds on:
//
//  1. Collect: partition anchors into "needs placement" (new, or auto-mode
//     whose surroundings changed) and "already resolved" (manual, or auto
//     with an unchanged context signature).
//  2. Order: process anchors in sorted-ID order so contested space is won
//     deterministically.
//  3. Place: run the configured strategy (directional search or
//     force-directed refinement) for every anchor that needs placement.
//  4. Commit: write the accepted positions into the placement store in one
//     batch.
//
// Manual placements are never recomputed. They are written only by
// RecordManualMove and cleared only by ResetToAuto; a layout pass treats
// them as immovable occupied space.
package engine
