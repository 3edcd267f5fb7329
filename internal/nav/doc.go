// Package nav resolves focus-change requests inside a tree of nested menus.
//
// The package is split the same way the resolution flows:
//
//   - Tree (tree.go) is an arena of menus and focusables addressed by ID. A
//     menu is entered from an anchor focusable owned by its parent menu; menus
//     without an anchor are roots. Anchors may be declared by ID or by name
//     before the focusable exists and are retried once per pass until they
//     resolve (ResolvePending).
//   - Navigator (navigator.go) owns the lock and the request queue. Each call
//     to Pass drains the queue in arrival order and returns one Event per
//     request, plus an InitiallyFocused event on the first pass that has a
//     focusable to pick.
//   - The resolvers (directional.go, scope.go, action.go, focuson.go) only
//     read the tree. The single write per accepted request happens in
//     Tree.commit, which rewrites the active trail, the focus states and the
//     remembered child of every menu on the new path.
//
// Resolution never fails. Anything that would be an error in a less forgiving
// design (unresolved anchors, cycles, missing geometry, invalid targets) is
// reported as a Diagnostic and the request resolves to NoChanges or Caught.
//
// Coordinates follow the terminal convention: x grows to the right and y
// grows downward, so Up moves toward smaller y.
package nav
