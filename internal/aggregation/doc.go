// Package aggregation compresses a chronological case study into a small
// set of representative periods with k-medoids clustering.
//
// Apply cuts each scenario's horizon into consecutive fixed-length blocks,
// builds a per-hour feature matrix (demand per bus plus capacity-weighted
// renewable production per technology) and clusters the blocks with the PAM
// build and swap phases. Medoids are actual observed blocks, never synthetic
// averages, so the rebuilt demand, profile and inflow tables carry real
// input rows under the new (rp, k) labels. The hour index keeps a mapping
// from every original hour to its block's cluster, which is what lets a
// reduced study be expanded back to full resolution later.
//
// The clustering is deterministic: ties break toward the lower block index
// and cluster ids follow the ascending medoid order.
package aggregation
