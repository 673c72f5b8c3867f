package render

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/simova-report/internal/model"
	"github.com/sells-group/simova-report/internal/report"
)

// Document is the serialized form of a report view.
type Document struct {
	ID        string                      `json:"id,omitempty" yaml:"id,omitempty"`
	Summary   SummaryDoc                  `json:"summary" yaml:"summary"`
	Indicator model.Indicator             `json:"indicator" yaml:"indicator"`
	Ranking   []model.TechnicianAggregate `json:"ranking" yaml:"ranking"`
	Pivot     report.Pivot                `json:"pivot" yaml:"pivot"`
}

// SummaryDoc mirrors report.Summary with dates omitted when there are none.
type SummaryDoc struct {
	FirstDate    string `json:"first_date,omitempty" yaml:"first_date,omitempty"`
	LastDate     string `json:"last_date,omitempty" yaml:"last_date,omitempty"`
	EligibleDays int    `json:"eligible_days" yaml:"eligible_days"`
	Technicians  int    `json:"technicians" yaml:"technicians"`
	Records      int    `json:"records" yaml:"records"`
	Dropped      int    `json:"dropped" yaml:"dropped"`
	Normalized   bool   `json:"normalized" yaml:"normalized"`
}

// NewDocument assembles the document for one indicator.
func NewDocument(rep *report.Report, ind model.Indicator) Document {
	view := rep.View(ind)
	s := rep.Summary
	doc := Document{
		Summary: SummaryDoc{
			EligibleDays: s.EligibleDays,
			Technicians:  s.Technicians,
			Records:      s.Records,
			Dropped:      s.Dropped,
			Normalized:   s.Normalized,
		},
		Indicator: ind,
		Ranking:   view.Ranking,
		Pivot:     view.Pivot,
	}
	if s.HasDates {
		doc.Summary.FirstDate = s.FirstDate.String()
		doc.Summary.LastDate = s.LastDate.String()
	}
	return doc
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return eris.Wrap(err, "render: encode json")
	}
	return nil
}

// WriteYAML writes the document as YAML.
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return eris.Wrap(err, "render: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "render: close yaml")
	}
	return nil
}
