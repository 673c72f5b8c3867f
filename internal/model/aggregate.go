package model

import "cloud.google.com/go/civil"

// Counts is the number of records that passed each indicator.
type Counts struct {
	OnTimeEntry             int `json:"on_time_entry" yaml:"on_time_entry"`
	LowUnproductiveDowntime int `json:"low_unproductive_downtime" yaml:"low_unproductive_downtime"`
	CorrectExitWindow       int `json:"correct_exit_window" yaml:"correct_exit_window"`
	OverallCompliance       int `json:"overall_compliance" yaml:"overall_compliance"`
}

// Add returns c with one record's flags added.
func (c Counts) Add(f Flags) Counts {
	c.OnTimeEntry += f.Value(OnTimeEntry)
	c.LowUnproductiveDowntime += f.Value(LowUnproductiveDowntime)
	c.CorrectExitWindow += f.Value(CorrectExitWindow)
	c.OverallCompliance += f.Value(OverallCompliance)
	return c
}

// Get returns the count for a single indicator.
func (c Counts) Get(ind Indicator) int {
	switch ind {
	case OnTimeEntry:
		return c.OnTimeEntry
	case LowUnproductiveDowntime:
		return c.LowUnproductiveDowntime
	case CorrectExitWindow:
		return c.CorrectExitWindow
	case OverallCompliance:
		return c.OverallCompliance
	}
	return 0
}

// Rates is Counts divided by the eligible day count.
type Rates struct {
	OnTimeEntry             float64 `json:"on_time_entry" yaml:"on_time_entry"`
	LowUnproductiveDowntime float64 `json:"low_unproductive_downtime" yaml:"low_unproductive_downtime"`
	CorrectExitWindow       float64 `json:"correct_exit_window" yaml:"correct_exit_window"`
	OverallCompliance       float64 `json:"overall_compliance" yaml:"overall_compliance"`
}

// Get returns the rate for a single indicator.
func (r Rates) Get(ind Indicator) float64 {
	switch ind {
	case OnTimeEntry:
		return r.OnTimeEntry
	case LowUnproductiveDowntime:
		return r.LowUnproductiveDowntime
	case CorrectExitWindow:
		return r.CorrectExitWindow
	case OverallCompliance:
		return r.OverallCompliance
	}
	return 0
}

// TechnicianAggregate sums a technician's flags over every record.
// Rates is set only when the report was normalized by eligible days.
type TechnicianAggregate struct {
	Technician string `json:"technician" yaml:"technician"`
	Records    int    `json:"records" yaml:"records"`
	Counts     Counts `json:"counts" yaml:"counts"`
	Rates      *Rates `json:"rates,omitempty" yaml:"rates,omitempty"`
}

// DateTechnicianAggregate sums a technician's flags for a single day.
type DateTechnicianAggregate struct {
	Date       civil.Date `json:"date" yaml:"date"`
	Technician string     `json:"technician" yaml:"technician"`
	Records    int        `json:"records" yaml:"records"`
	Counts     Counts     `json:"counts" yaml:"counts"`
}
