// Package dataprocessing implements the schema-inference and
// normalization pipeline behind automatic dashboard generation. It takes
// uploaded tables of unknown shape and turns them into a clean,
// time-indexed fact table plus ranked summaries.
//
// # Architecture
//
// The pipeline runs per uploaded file, then per batch:
//
//  1. Loader: parses csv/xls/xlsx/json bytes into a generic Table
//  2. Standardizer: canonicalizes column names
//  3. Cleaner: deduplicates rows and fills missing text values
//  4. Classifier: assigns semantic roles (amount, date, product,
//     location, region) by keyword matching over canonical names
//  5. Combiner: concatenates all sales-category tables into the fact table
//  6. Temporal/filter engine: coerces the date column, derives the year,
//     applies the user's conjunctive filters
//  7. Aggregator: monthly series, top-N category totals, custom charts
//
// Every stage is a pure function returning a new Table; the working
// table is simply the latest stage output. Per-file errors are isolated
// and never abort the batch.
package dataprocessing
