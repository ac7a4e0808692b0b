// Package deps finds locally installed packages and walks their
// dependency graphs.
//
// # Locating
//
// [Locator.Find] resolves one specifier. Paths load directly. Package
// names are searched the way Node resolves modules: the search root itself
// (a project named after the request), then its node_modules child, then
// the same two places in every ancestor directory up to the filesystem
// root. Tarball, url and git specifiers are rejected; nothing is fetched.
//
// # Walking
//
// [Walker.Walk] resolves requested names and, transitively, everything
// they declare, producing the packages in post-order: every package comes
// after all of its dependencies, which is the order a bundler concatenates
// them in.
//
//	w := deps.NewWalker(deps.NewLocator(local.NewCache(), "."))
//	g, err := w.Walk(ctx, []string{"bonzo", "qwery"}, deps.WalkOptions{Unique: true})
//	for _, p := range g.Packages {
//	    fmt.Println(p.ID())
//	}
//
// Siblings are located concurrently and processed in declaration order, so
// the result is deterministic. Each root is processed at most once per
// walk, which keeps circular declarations finite.
//
// # Trees
//
// [Walker.Tree] keeps the nesting instead of flattening it; see
// [TreeNode] for how repeats and missing names are represented.
package deps
