// Package dump prints the items of a finished batch to the console.
//
// Items are grouped by status under a coloured rule. Colours are dropped
// automatically when the writer is not a terminal. After the item's state the
// entry's own fields follow in entry.Keys order; fields starting with an
// underscore are internal and never printed.
package dump
