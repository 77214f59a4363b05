// Package covenant models a 90-day covenant period and its daily checklist.
//
// The package is pure state plus projections of that state:
//
//   - State holds the covenant start date and the per-day task flags.
//   - BuildLog projects State into day cards, newest first.
//   - Summarize derives the "last confession" value.
//   - Controller owns a State, persists it through a Store after every
//     mutation, and enforces the period lifecycle (Unconfigured/Active).
//
// Nothing here reads the wall clock directly. "Today" always comes from a
// Clock so callers (and tests) decide which calendar day it is.
//
// # Persisted layout
//
//	{
//	  "startDate": "2024-01-01",
//	  "data": {
//	    "2024-01-05": {"confession": true, "holy_mass": false}
//	  }
//	}
//
// Only days with at least one recorded toggle appear under "data".
package covenant
