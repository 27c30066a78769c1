package taxonomy

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Rank is a taxonomic rank name as reported by the reference service.
type Rank string

// Ranks taken from the reference service lineage chain.
const (
	RankKingdom Rank = "kingdom"
	RankPhylum  Rank = "phylum"
	RankClass   Rank = "class"
	RankOrder   Rank = "order"
	RankFamily  Rank = "family"
	RankGenus   Rank = "genus"
)

// LineageEntry is one rank→name pair of a lineage chain.
type LineageEntry struct {
	TaxID string `json:"tax_id,omitempty" yaml:"tax_id,omitempty"`
	Rank  Rank   `json:"rank" yaml:"rank"`
	Name  string `json:"name" yaml:"name"`
}

// Taxon is a record as fetched from the reference service.
type Taxon struct {
	TaxID          string         `json:"tax_id" yaml:"tax_id"`
	ScientificName string         `json:"scientific_name" yaml:"scientific_name"`
	Rank           Rank           `json:"rank,omitempty" yaml:"rank,omitempty"`
	Lineage        []LineageEntry `json:"lineage" yaml:"lineage"`
}

// RankName returns the name recorded for rank, or "" when the chain lacks it.
func (t Taxon) RankName(rank Rank) string {
	for _, e := range t.Lineage {
		if e.Rank == rank {
			return e.Name
		}
	}
	return ""
}

// LineageRecord is a resolved organism identity.
type LineageRecord struct {
	Name       string     `json:"species" yaml:"species"`
	TaxID      string     `json:"tax_id,omitempty" yaml:"tax_id,omitempty"`
	Domain     string     `json:"domain" yaml:"domain"`
	Kingdom    string     `json:"kingdom" yaml:"kingdom"`
	Phylum     string     `json:"phylum" yaml:"phylum"`
	Class      string     `json:"class" yaml:"class"`
	Order      string     `json:"order" yaml:"order"`
	Family     string     `json:"family" yaml:"family"`
	Genus      string     `json:"genus" yaml:"genus"`
	Provenance Provenance `json:"original_species" yaml:"original_species"`
}

// NewLineageRecord builds a record for originalLabel from a fetched taxon.
// Domain comes from the caller because the reference service does not carry it.
func NewLineageRecord(originalLabel, domain string, t Taxon) LineageRecord {
	return LineageRecord{
		Name:       t.ScientificName,
		TaxID:      t.TaxID,
		Domain:     domain,
		Kingdom:    t.RankName(RankKingdom),
		Phylum:     t.RankName(RankPhylum),
		Class:      t.RankName(RankClass),
		Order:      t.RankName(RankOrder),
		Family:     t.RankName(RankFamily),
		Genus:      t.RankName(RankGenus),
		Provenance: NewProvenance(originalLabel),
	}
}

// Ranks returns Domain through Genus in rank order.
func (r LineageRecord) Ranks() [7]string {
	return [7]string{r.Domain, r.Kingdom, r.Phylum, r.Class, r.Order, r.Family, r.Genus}
}

// SameLineage reports whether both records carry identical rank fields.
func (r LineageRecord) SameLineage(other LineageRecord) bool {
	return r.Ranks() == other.Ranks()
}

// Taxon renders the record as a semicolon separated, rank-prefixed string
// accepted by QIIME2 taxonomy imports.
func (r LineageRecord) Taxon() string {
	return fmt.Sprintf("d_%s; k_%s; p_%s; c_%s; o_%s; f_%s; g_%s; s_%s",
		r.Domain, r.Kingdom, r.Phylum, r.Class, r.Order, r.Family, r.Genus, r.Name)
}

// domainSuffix matches the qualifiers the probe coverage sheet appends to domains.
var domainSuffix = regexp.MustCompile(`(_noFamily|Families)$`)

// CleanDomain strips a trailing "_noFamily" or "Families" qualifier.
func CleanDomain(raw string) string {
	return domainSuffix.ReplaceAllString(raw, "")
}

// Provenance is the set of original labels that resolved to one identity.
// It is kept sorted and free of duplicates.
type Provenance []string

// NewProvenance builds a normalized provenance set.
func NewProvenance(labels ...string) Provenance {
	p := Provenance(slices.Clone(labels))
	slices.Sort(p)
	return slices.Compact(p)
}

// Union returns the normalized union of p and other.
func (p Provenance) Union(other Provenance) Provenance {
	merged := make([]string, 0, len(p)+len(other))
	merged = append(merged, p...)
	merged = append(merged, other...)
	return NewProvenance(merged...)
}

// String renders the set comma-joined, in byte order.
func (p Provenance) String() string {
	return strings.Join(p, ", ")
}
