// Package tabsep reads tab-separated profile files described by a
// DataSettings.yaml placed in the data folder.
//
// The file layout is a header line with column names, a second line with
// units (skipped), and one value row per timestep. Exports from European
// tools are often Latin-1 encoded and end each line with a trailing tab;
// the reader decodes non-UTF-8 bytes as Latin-1 and drops a trailing
// column with an empty name.
//
// The settings select one file and column as the VRES profile and may
// enable interval aggregation, which sums each run of consecutive values
// into one coarser timestep.
package tabsep
