// Package build provides the canonical bootstrap pipeline.
//
// One parameterized pipeline serves every variant: reset the output
// directories, optionally stage a copy of the sources, scan the library
// directory, compile the entry point, package the classes and launch the
// result. Stages run strictly in that order; the first failure stops the run
// and is reported as a stage-labeled error. All execution paths (build,
// watch, tests) route through Service.
package build
