// Package references provides lint rules for table and column references.
// These rules follow SQLFluff's RF (References) rule category.
//
// Rules in this package:
//   - RF01: References must resolve to a table or alias in scope
//
// In dialects where dotted names may walk struct fields (BigQuery) RF01 is
// lenient: any of the first three parts of a qualified reference may name
// the table, so table.col.field and dataset.table.col both resolve.
package references
