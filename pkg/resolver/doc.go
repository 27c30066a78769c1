// Package resolver maps free-text organism labels to canonical lineage
// records through a taxonomy reference client.
//
// Each label is searched by name first. When that search finds nothing, or
// more candidates than MaxCandidates, the label's probe name is searched
// instead, broadening to the exact phrase and then narrowing by dropping
// trailing words. The first remaining candidate is fetched with a bounded
// number of attempts.
//
// A pass is all-or-nothing: every label is attempted, and if any fails the
// caller gets one BatchResolutionError naming all of them and no records.
package resolver
