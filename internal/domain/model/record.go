package model

import "fmt"

// Record is the on-disk shape shared by ground-truth and prediction files.
type Record struct {
	File         string      `json:"file"`
	MissingPills int         `json:"missing_pills"`
	PresentPills int         `json:"present_pills"`
	Coordinates  Coordinates `json:"coordinates"`
}

// Coordinates holds the centroids per pill type. Order is irrelevant.
type Coordinates struct {
	Missing []Point `json:"missing"`
	Present []Point `json:"present"`
}

// Validate reports counts that cannot describe a blister.
func (r Record) Validate() error {
	if r.MissingPills < 0 {
		return fmt.Errorf("%w: missing_pills = %d", ErrNegativeCount, r.MissingPills)
	}
	if r.PresentPills < 0 {
		return fmt.Errorf("%w: present_pills = %d", ErrNegativeCount, r.PresentPills)
	}
	return nil
}

// Sample converts the record into a Sample identified by id.
func (r Record) Sample(id string) Sample {
	return Sample{
		ID:            id,
		File:          r.File,
		PresentCount:  r.PresentPills,
		MissingCount:  r.MissingPills,
		PresentPoints: r.Coordinates.Present,
		MissingPoints: r.Coordinates.Missing,
	}
}

// NewRecord converts a sample back into its on-disk shape.
func NewRecord(s Sample) Record {
	present := s.PresentPoints
	if present == nil {
		present = []Point{}
	}
	missing := s.MissingPoints
	if missing == nil {
		missing = []Point{}
	}
	return Record{
		File:         s.File,
		MissingPills: s.MissingCount,
		PresentPills: s.PresentCount,
		Coordinates: Coordinates{
			Missing: missing,
			Present: present,
		},
	}
}
