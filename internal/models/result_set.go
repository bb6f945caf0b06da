package models

import "time"

// ResultSet is a class configuration and its scored students, persisted as one unit.
type ResultSet struct {
	ID           string             `db:"id" json:"id"`
	SchoolID     string             `db:"school_id" json:"school_id"`
	ClassName    string             `db:"class_name" json:"class_name"`
	Term         string             `db:"term" json:"term"`
	AcademicYear int                `db:"academic_year" json:"academic_year"`
	ClassData    ClassConfiguration `db:"class_data" json:"class_data"`
	Students     StudentRecords     `db:"students" json:"students"`
	CreatedBy    string             `db:"created_by" json:"created_by"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
}

// FindStudent returns the student with the given id.
func (r *ResultSet) FindStudent(id string) (*StudentRecord, bool) {
	for i := range r.Students {
		if r.Students[i].ID == id {
			return &r.Students[i], true
		}
	}
	return nil, false
}

// ResultSetFilter scopes result set listings.
type ResultSetFilter struct {
	SchoolID  string
	ClassName string
	Term      string
	Page      int
	PageSize  int
}

// Template is a saved class configuration reused to start new score-entry sessions.
type Template struct {
	ID          string             `db:"id" json:"id"`
	SchoolID    string             `db:"school_id" json:"school_id"`
	Name        string             `db:"name" json:"name"`
	Description string             `db:"description" json:"description,omitempty"`
	ClassData   ClassConfiguration `db:"class_data" json:"class_data"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}
