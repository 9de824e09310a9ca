// Package nrel118 reads the NREL-118 dataset exports into core table rows.
//
// The dataset spans one leap year at hourly resolution under a single
// scenario and representative period. Inflows come from three sources: a
// folder of per-generator hourly CSV files, a non-dispatchable hydro file
// with one value per generator and month, and monthly maximum-energy
// budgets from a Plexos workbook. VRES profiles come from solar and wind
// folders of hourly production CSV files, normalized into capacity factors
// by the installed capacity listed in the generator information file.
//
// Monthly timeslices M1..M12 map onto hourly timestep labels; December
// includes the additional trailing day of the dataset. An optional maximum
// timestep truncates every emitted series.
package nrel118
