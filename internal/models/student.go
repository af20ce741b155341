package models

import "time"

type Student struct {
	ID        int64     `json:"id"`
	ParentID  int64     `json:"parent_id"`
	FirstName string    `json:"first_name"`
	YearLevel int       `json:"year_level"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateStudentRequest struct {
	FirstName string `json:"first_name"`
	YearLevel int    `json:"year_level"`
}
