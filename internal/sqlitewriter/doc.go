// Package sqlitewriter persists prepared case studies into SQLite database
// files.
//
// One database file is a self-describing snapshot of a single preparation
// run: every core table is stored in long format under its canonical name,
// the representative-period transition matrices as (rp_from, rp_to, value)
// triples, the scaling factors under scaling_factors, and the run identity
// plus free-form settings under run_parameters. Rewriting a table replaces
// the previous contents, so repeated exports into the same file converge on
// the latest run.
//
// Example usage:
//
//	w, err := sqlitewriter.Open("/path/to/case.sqlite")
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//
//	if err := w.WriteCaseStudy(ctx, cs); err != nil {
//		return err
//	}
//	err = w.WriteRunParameters(ctx, runID, map[string]string{"source": "excel"})
package sqlitewriter
