package directory

import "time"

// Employee is owned by the HR subsystem; the engine only reads it to
// resolve departments and designations.
type Employee struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DepartmentID int64     `json:"departmentId"`
	Designation  string    `json:"designation"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
