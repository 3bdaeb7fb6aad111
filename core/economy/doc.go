// Package economy describes the static resource economy searched by the
// scheduler: the ordered resource kinds, the cost of building one producer of
// each kind, and which kinds are the root (present from tick 0) and the
// terminal (the kind whose stockpile is maximised).
//
// An Economy is validated once by New and is read-only afterwards, so it can
// be shared between concurrent searches.
package economy
