// Package workspace owns the build output directories of a pipeline run.
//
// Every run starts from an empty workspace: each configured directory is
// created when missing and otherwise emptied child by child. There is no
// partial cleanup and no caching between runs; a failure to remove any child
// aborts the reset so later stages never see stale output.
package workspace
