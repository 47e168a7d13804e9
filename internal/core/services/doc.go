// Package services implements the position-tracking core: anchor
// generation, similarity scoring, the incremental position updater, the
// relocation search, the update coalescer, and the Tracker session that
// wires them to the driven ports.
//
// Services contain all tracking logic but no I/O of their own; storage
// and document access go through the interfaces in ports/driven.
package services
