// Package deps discovers library archives and joins them into classpath strings.
//
// A Set is the ordered sequence of archive paths found by one recursive walk
// of the library directory. The order is the walk order and is reused verbatim
// for every classpath derived from the set; duplicates are kept.
package deps
