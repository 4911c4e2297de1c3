// Package additem implements the Add Item to Catalog use case.
//
// It follows the Command-Query-Decide-Append pattern with proper separation between
// infrastructure concerns (CommandHandler) and pure business logic (Decide function).
// Item names are unique within the catalog and are stored trimmed.
package additem
