package directory

// DefaultEmployees returns the seed employee set.
func DefaultEmployees() []Employee {
	return []Employee{
		{ID: "e001", Name: "Alice", Role: "Manager", LeaveBalance: 12},
		{ID: "e002", Name: "Bob", Role: "Developer", LeaveBalance: 8},
		{ID: "e003", Name: "Charlie", Role: "Sales Executive", LeaveBalance: 10},
		{ID: "e004", Name: "Diana", Role: "HR Associate", LeaveBalance: 15},
		{ID: "e005", Name: "Ethan", Role: "DevOps Engineer", LeaveBalance: 7},
		{ID: "e006", Name: "Fiona", Role: "QA Tester", LeaveBalance: 9},
		{ID: "e007", Name: "George", Role: "Business Analyst", LeaveBalance: 11},
		{ID: "e008", Name: "Hannah", Role: "Content Writer", LeaveBalance: 13},
		{ID: "e009", Name: "Ivan", Role: "Finance Manager", LeaveBalance: 6},
		{ID: "e010", Name: "Jasmine", Role: "UI/UX Designer", LeaveBalance: 12},
		{ID: "e011", Name: "Kunal", Role: "Intern", LeaveBalance: 5},
		{ID: "e012", Name: "Lara", Role: "Tech Support", LeaveBalance: 14},
	}
}

// Default returns a Directory populated with DefaultEmployees.
func Default() *Directory {
	return New(DefaultEmployees()...)
}
