// Package taxonomy defines the value records that flow between pipeline
// stages: measurement rows keyed by organism label, the raw lineage chain
// returned by the reference service, and the resolved LineageRecord with
// its provenance.
//
// Records are plain values. Stages never mutate a slice they were handed;
// they build and return a new one.
package taxonomy
