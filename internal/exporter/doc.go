// Package exporter provides CSV export functionality for case studies.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, appends,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// Table rendering: CoreTables flattens every core table of a case study into
// the long CSV format, one row per record, using the workbook database column
// names. Export writes the full set as one file per table.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("/path/to/output")
//
//	// Export every core table
//	err := exporter.Export(cs, writer)
//
//	// Export a single table
//	err = exporter.ExportTable(cs, writer, casestudy.TableDemand)
package exporter
