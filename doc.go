// Package csvtable parses CSV input into typed columnar tables.
//
// The engine tokenizes a byte stream under a configurable dialect
// (delimiter, quoting, comments, blank-line rules), classifies rows into
// header and data, resolves a schema from the header and/or explicit or
// inferred per-column dtypes, and converts every field into a typed column
// with a validity bitmap for missing values.
//
// Parsing is exposed through pkg/csv:
//
//	tbl, err := csv.Read(data, csv.DefaultOptions())
//
// Large inputs can be split into byte-range windows and parsed in
// parallel; concatenating the per-window tables in offset order
// reproduces a single full read:
//
//	ranges := csv.SplitRanges(int64(len(data)), 1<<20)
//	tbl, err := csv.ReadRanges(ctx, data, opts, ranges)
//
// Compressed inputs (gzip, bzip2) are decoded by pkg/source before any
// bytes reach the tokenizer. The typed output model lives in pkg/columnar.
package csvtable
