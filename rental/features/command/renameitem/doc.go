// Package renameitem implements the Rename Item use case.
//
// The renamed item keeps its availability and its open rental, which from then on is
// closed under the new name. The query spans the item streams of both names.
package renameitem
