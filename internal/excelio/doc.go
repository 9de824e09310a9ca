// Package excelio reads and writes LEGOExcel data folders, one xlsx
// workbook per table.
//
// Every sheet shares one layout: rows 1 to 7 hold the header block (title,
// version tag in C2, readable names, database names, descriptions, behavior
// and unit), data starts at row 8, and column A carries the exclusion
// marker on sheets that support one. The reader binds columns by database
// name, so extra or reordered columns do not break a load, and it checks
// the version tag of every sheet before reading a single cell. The writer
// reproduces the layout without styling; its output loads back through the
// reader.
//
// Time-dependent sheets (demand, renewable profiles, inflows, hub
// profiles) are pivoted, one column per timestep. The reader melts them
// into long rows; the writer groups long rows back into pivoted ones.
//
// Example usage:
//
//	in, err := excelio.ReadTables("data/IEEE-9n")
//	if err != nil {
//		return err
//	}
//	cs, err := casestudy.New(in, casestudy.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	if err := excelio.WriteTables(cs, "out/IEEE-9n"); err != nil {
//		return err
//	}
package excelio
