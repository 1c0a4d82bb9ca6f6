// Package packager bundles compiled units into a single executable archive.
//
// Two backends are provided. JarTool shells out to the JDK `jar` tool.
// Native writes the archive itself with a fixed entry order and fixed
// timestamps, so unchanged inputs produce byte-identical artifacts.
//
// Both write to a temporary sibling of the output path and rename it into
// place only after the archive is complete: a failed packaging step never
// leaves a partial artifact, and a successful one replaces any previous file.
package packager
