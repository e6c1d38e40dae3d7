// Package treemovie animates radial phylogenetic tree sequences.
//
// Treemovie takes a dataset of tree frames (anchor trees plus interpolated
// in-between trees), lays each frame out radially, and animates the
// transitions between consecutive frames with staged enter/update/exit
// element lifecycles. Output goes through a [Canvas]: [SVGCanvas] for static
// export and [VectorCanvas] for interactive [Ebitengine] rendering.
//
// # Quick start
//
// Load a dataset and drive a [Controller] from your frame loop:
//
//	ctrl := treemovie.NewController()
//	if err := ctrl.Load(data); err != nil {
//		log.Fatal(err)
//	}
//	ctrl.StartPlayback(now)
//
//	// each tick:
//	ctrl.Update(now, dt)
//	ctrl.Draw(canvas)
//
// For a one-off static render, skip playback entirely:
//
//	ctrl.GoToPosition(12)
//	svg := ctrl.RenderSVG(12, 800, 800)
//
// # Frames and segments
//
// A [Movie] is an immutable frame sequence. Frames whose metadata carries no
// pair key are anchors (full reconstructed trees); the rest interpolate
// between the anchors around them. [Movie.ResolveSegment] maps any frame to
// its bracketing pair and interpolation fraction, and [PlaybackClock] maps
// wall-clock time to a position in the sequence, holding at each anchor for a
// configurable pause.
//
// # Elements and identity
//
// Every drawn element (branch, node dot, leaf extension, label) has a stable
// string key derived from the clade it represents, so elements keep their
// identity across frames even as topology changes. [DiffKeys] splits two
// frames' key sets into enter, update, and exit groups; renderers fade exits
// out, tween updates along the shortest arc, and place enters at their final
// position.
//
// Tweens come from [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package treemovie
