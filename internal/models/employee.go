package models

// Employee represents an employee entity as it is persisted in the store.
type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// EmployeeRecord is the wire representation of an employee exchanged over HTTP.
// ID is a pointer so that it can be null in request and response bodies.
type EmployeeRecord struct {
	ID        *int64 `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
