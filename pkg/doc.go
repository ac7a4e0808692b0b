// Package pkg provides the libraries behind ender-package, which finds
// locally installed Ender packages, walks their dependencies and assembles
// their sources.
//
// # Overview
//
// The pkg directory is organized bottom-up:
//
//  1. [files] and [descriptor]: the filesystem boundary and package.json parsing
//  2. [local]: one installed package plus the load cache shared by every lookup
//  3. [deps]: the locator (name or path to package) and the dependency walker
//  4. [render]: indented dependency trees and node-link graphs of a walk
//  5. [io], [server], [watch]: reports, the HTTP surface and cache invalidation
//
// Supporting packages are [errors] (coded errors), [memo] (single-flight
// memoization), [fanout] (ordered concurrent work), [config] (TOML settings),
// [observability] (hooks) and [buildinfo].
//
// # Data Flow
//
//	specifier ("bonzo", "./lib/x")
//	         ↓
//	    [deps.Locator] (search node_modules up the directory ancestry)
//	         ↓
//	    [local.Cache] (one loaded [local.Package] per root)
//	         ↓
//	    [deps.Walker] (post-order walk, missing names recorded)
//	         ↓
//	    tree / report / DOT / SVG
//
// # Quick Start
//
//	cache := local.NewCache()
//	walker := deps.NewWalker(deps.NewLocator(cache, "."))
//
//	g, err := walker.Walk(ctx, []string{"bonzo"}, deps.WalkOptions{})
//	if err != nil {
//	    return err
//	}
//	for _, p := range g.Packages {
//	    fmt.Println(p.ID(), p.Root())
//	}
//
//	t, _ := walker.Tree(ctx, []string{"bonzo"})
//	tree.Write(os.Stdout, t, tree.Options{})
//
// # Concurrency
//
// A [local.Cache] is safe for concurrent use. Descriptor and source loads
// are memoized per root, so concurrent walks over the same packages read
// each file once. Resetting a root (as the watcher does on change) makes
// the next lookup read from disk again.
//
// [files]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/files
// [descriptor]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/descriptor
// [local]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/local
// [deps]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/deps
// [render]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/render
// [io]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/io
// [server]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/server
// [watch]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/watch
// [errors]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/errors
// [memo]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/memo
// [fanout]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/fanout
// [config]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/config
// [observability]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/buildinfo
// [local.Cache]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/local#Cache
//
// [deps.Locator]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/deps#Locator
// [deps.Walker]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/deps#Walker
// [local.Package]: https://pkg.go.dev/github.com/ender-js/ender-package/pkg/local#Package
package pkg
