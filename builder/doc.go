// Package builder assembles road networks for the citytwin engine.
//
// Graphs are composed from Constructors applied in order to a draft, then
// validated once by core.NewGraph:
//
//	g, err := builder.BuildCity(
//	    []builder.BuilderOption{builder.WithSeed(42)},
//	    builder.Grid(5),
//	    builder.Landmark(builder.NodeID(2, 2), "City Center (POI)"),
//	    builder.Zone("downtown", "n_2_2", "n_1_2", "n_2_1"),
//	    builder.Highway("n_0_0", "n_1_1", "n_2_2"),
//	)
//
// ReferenceCity returns exactly that topology: the 5×5 Manhattan grid with
// the hospital, city center and industrial POIs, the three-node downtown
// zone and the diagonal highway shortcut.
//
// Determinism:
//
//   - Node order: row-major (y asc, then x asc).
//   - Edge order: horizontal pairs, then vertical pairs, then highway links,
//     in the order constructors are applied.
//   - Initial flow is drawn only when an RNG is configured (WithSeed/WithRand);
//     otherwise every edge starts empty.
//
// Errors:
//
//	ErrTooSmall        - grid dimension below 1.
//	ErrUnknownNode     - a constructor referenced a node the draft does not hold.
//	ErrConstructFailed - nil constructor or core validation failure.
package builder
