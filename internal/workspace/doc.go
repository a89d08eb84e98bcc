// Package workspace lists the stacks applied to a workspace and classifies
// the commits of each of their branches.
//
// It is responsible for:
//   - Listing stacks in the order the stack state defines
//   - Walking a branch's commits and its upstream's commits, bounded by the
//     heads below it and the workspace target
//   - Marking each local commit as local only, also on the remote, or integrated
//   - Assembling the StackBranch views handed to the UI
//
// The package only reads: repository access goes through the Repository
// interface and stack state through StackStore.
package workspace
