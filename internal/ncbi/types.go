package ncbi

import "github.com/axioparse/axioparse/pkg/taxonomy"

// searchResponse is the esearch JSON envelope.
type searchResponse struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
		Error  string   `json:"ERROR"`
	} `json:"esearchresult"`
}

// taxaSet is the efetch XML document for db=taxonomy.
type taxaSet struct {
	Taxa []taxonXML `xml:"Taxon"`
}

type taxonXML struct {
	TaxID          string     `xml:"TaxId"`
	ScientificName string     `xml:"ScientificName"`
	Rank           string     `xml:"Rank"`
	Lineage        []rankNode `xml:"LineageEx>Taxon"`
}

type rankNode struct {
	TaxID          string `xml:"TaxId"`
	ScientificName string `xml:"ScientificName"`
	Rank           string `xml:"Rank"`
}

func (s taxaSet) toTaxa() []taxonomy.Taxon {
	taxa := make([]taxonomy.Taxon, 0, len(s.Taxa))
	for _, t := range s.Taxa {
		lineage := make([]taxonomy.LineageEntry, 0, len(t.Lineage))
		for _, n := range t.Lineage {
			lineage = append(lineage, taxonomy.LineageEntry{
				TaxID: n.TaxID,
				Rank:  taxonomy.Rank(n.Rank),
				Name:  n.ScientificName,
			})
		}
		taxa = append(taxa, taxonomy.Taxon{
			TaxID:          t.TaxID,
			ScientificName: t.ScientificName,
			Rank:           taxonomy.Rank(t.Rank),
			Lineage:        lineage,
		})
	}
	return taxa
}
