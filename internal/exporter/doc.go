// Package exporter writes dashboard tables and aggregation results to
// CSV files under the configured reports directory. Files carry a UTF-8
// BOM so Excel opens them with the right encoding.
package exporter
