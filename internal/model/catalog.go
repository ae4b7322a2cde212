package model

// Catalog types mirror the upstream lab API's test and package resources.
// The gateway does not own this data; it proxies paginated listings for
// clients that cannot talk to the upstream directly.

// Test is an individual lab test as returned by GET /tests upstream.
type Test struct {
	ID                 int     `json:"id"`
	Department         string  `json:"department"`
	TestCode           string  `json:"testCode"`
	TestName           string  `json:"testName"`
	Amount             float64 `json:"amount"`
	MethodName         string  `json:"methodName"`
	Specimen           string  `json:"specimen"`
	SpecimenVolume     string  `json:"specimenVolume"`
	Container          string  `json:"container"`
	Reported           string  `json:"reported"`
	SpecialInstruction string  `json:"specialInstruction,omitempty"`
}

// Package is a bundle of tests sold at a combined price.
type Package struct {
	ID          int     `json:"id"`
	PackageName string  `json:"packageName"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	Tests       []Test  `json:"tests,omitempty"`
}

// Pagination carries the upstream paging envelope unchanged.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TestPage is the upstream response shape for test listings.
type TestPage struct {
	Tests      []Test     `json:"tests"`
	Pagination Pagination `json:"pagination"`
}

// PackagePage is the upstream response shape for package listings.
type PackagePage struct {
	Packages   []Package  `json:"packages"`
	Pagination Pagination `json:"pagination"`
}

// CurrentUser is the identity payload from GET /auth/current upstream. It is
// used to prefill the draft when the patient books for themselves.
type CurrentUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"phone"`
	DOB    string `json:"dob,omitempty"`
}
