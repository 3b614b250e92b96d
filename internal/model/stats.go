package model

// TestStats is the dashboard summary for one user.
type TestStats struct {
	UserID           uint    `json:"userId"`
	MedicalFormCount int64   `json:"medicalFormCount"`
	BloodTestCount   int64   `json:"bloodTestCount"`
	TotalTests       int64   `json:"totalTests"`
	LastTestDate     *string `json:"lastTestDate"`
}
