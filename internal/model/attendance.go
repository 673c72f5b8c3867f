// Package model defines the attendance records, compliance flags and aggregates
// shared by the ingestion, evaluation and reporting stages.
package model

import "cloud.google.com/go/civil"

// AttendanceRecord is one technician shift as read from the activity log.
type AttendanceRecord struct {
	Row            int    `json:"row"`
	TechnicianID   string `json:"technician_id,omitempty"`
	TechnicianName string `json:"technician_name"`
	Role           string `json:"role,omitempty"`
	Branch         string `json:"branch,omitempty"`

	EntryTime Timestamp `json:"entry_time"`
	ExitTime  Timestamp `json:"exit_time"`

	ShiftDuration        Duration `json:"shift_duration"`
	ProductiveStop       Duration `json:"productive_stop"`
	UnproductiveDowntime Duration `json:"unproductive_downtime"`
	LostDuration         Duration `json:"lost_duration"`
	WorkedDuration       Duration `json:"worked_duration"`
	TransitDuration      Duration `json:"transit_duration"`
}

// Date returns the calendar date of the entry timestamp.
func (r AttendanceRecord) Date() (civil.Date, bool) {
	return r.EntryTime.Date()
}

// EvaluatedRecord pairs a record with its compliance flags.
type EvaluatedRecord struct {
	AttendanceRecord
	Flags Flags `json:"flags"`
}
