package employees

import "github.com/UnknownOlympus/ems/internal/models"

func toEntity(record models.EmployeeRecord) models.Employee {
	employee := models.Employee{
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Email:     record.Email,
	}
	if record.ID != nil {
		employee.ID = *record.ID
	}

	return employee
}

func toRecord(employee models.Employee) models.EmployeeRecord {
	identifier := employee.ID

	return models.EmployeeRecord{
		ID:        &identifier,
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Email:     employee.Email,
	}
}
