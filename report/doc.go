// Package report builds worksheets from [area] templates.
//
// A [Builder] walks a template tree depth first with a [Cursor] tracking
// the next free cell. Values come from the lang evaluator over a scope of
// variable frames: the data bindings at the bottom, one frame per repeated
// element or table level above. Every cell or span the walk produces is
// committed once as a [sheet.Region] to the builder's [sheet.Sink].
//
// Tables group nested collections over any number of levels. Values of
// outer-level fields are held open while consecutive rows repeat them and
// are committed as one vertical span when the value changes or the level
// that bounds them finishes iterating. Header titles are padded to equal
// depth and identical neighbours merged, extending across columns before
// rows.
//
// A Builder is single-threaded. [BuildDocument] builds the sheets of a
// template concurrently, one Builder per sheet.
package report
