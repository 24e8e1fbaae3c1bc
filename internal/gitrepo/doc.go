// Package gitrepo answers two questions about the invocation's working
// directory: is it inside a git repository, and where does that
// repository push to.
//
// Both answers come from the git binary itself rather than from parsing
// .git internals, so worktrees, submodules, and GIT_DIR indirection
// behave exactly as git defines them. The returned root is raw; callers
// that use it as a trust boundary canonicalize it first.
package gitrepo
