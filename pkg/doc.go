// Package pkg provides the core libraries for stairheur staircase detection.
//
// # Overview
//
// Stairheur reorders the rows and columns of a sparse 0/1 constraint matrix
// to expose staircase structure, then cuts the reordered matrix into blocks
// suitable for decomposition-based solvers. The pkg directory is organized
// into three main areas:
//
//  1. Domain logic: [model], [mps], [detection] (permutation search + blocking)
//  2. Rendering: [render], [io] (SVG/PNG/PDF matrices, DOT block graphs, .dec)
//  3. Infrastructure: [cache], [store], [errors], [observability], [pipeline]
//
// # Architecture
//
// The typical data flow through stairheur:
//
//	MPS file / inline source
//	         ↓
//	    [mps] package (parse into a problem)
//	         ↓
//	    [detection] package (rank-ordering clustering + blocking)
//	         ↓
//	    [render] / [io] packages (matrix plots, block graphs, exports)
//	         ↓
//	    SVG/PNG/PDF/DOT/.dec/JSON output
//
// # Quick Start
//
// Detect staircase structure and render the block matrix:
//
//	import (
//	    "context"
//	    "github.com/scipopt/stairheur/pkg/detection"
//	    "github.com/scipopt/stairheur/pkg/mps"
//	    "github.com/scipopt/stairheur/pkg/render"
//	)
//
//	// 1. Read the instance
//	p, _ := mps.ReadFile("instance.mps")
//
//	// 2. Run detection
//	res, _ := detection.Run(context.Background(), p, detection.DefaultOptions())
//
//	// 3. Render the best decomposition
//	if res.Status == detection.StatusSuccess {
//	    svg := render.MatrixSVG(p, res.Decompositions[0], render.DefaultMatrixOptions())
//	    _ = svg
//	}
//
// # Main Packages
//
// ## Domain Logic
//
// [model] - The problem representation: constraints, variables, and the
// sparse incidence structure detection operates on.
//
// [mps] - Reader for fixed- and free-form MPS files, the standard exchange
// format for linear and mixed-integer programs.
//
// [detection] - The detector itself: rank-ordering clustering of the
// incidence matrix to a fixed point, envelope and constriction statistics,
// and the dynamic, static, and as-soon-as-possible blocking strategies that
// turn an ordering into decompositions.
//
// ## Rendering and Exchange
//
// [render] - Matrix plots (SVG, with PNG/PDF conversion) and Graphviz block
// graphs for decompositions.
//
// [io] - Exchange formats: JSON round-tripping of detection results and the
// GCG .dec file format.
//
// ## Infrastructure
//
// [pipeline] - The read → detect → render pipeline used by CLI and server.
// Ensures consistent behavior and caching across all entry points.
//
// [cache] - Content-addressed caching of parsed problems, detection
// results, and rendered artifacts. File-backed for the CLI, Redis for
// multi-replica deployments.
//
// [store] - Archive of past detection runs for the HTTP server. Memory,
// file, and MongoDB backends.
//
// [errors] - Coded errors that map cleanly to exit codes and HTTP statuses.
//
// [observability] - Hook points for instrumenting pipeline stages, cache
// traffic, and HTTP handling.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/detection/...  # Specific package
//
// [model]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/model
// [mps]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/mps
// [detection]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/detection
// [render]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/render
// [io]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/cache
// [store]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/store
// [errors]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/errors
// [observability]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/scipopt/stairheur/pkg/buildinfo
package pkg
