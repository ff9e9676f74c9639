package dto

// VerificationRequest captures a verify/flag action against a record field.
type VerificationRequest struct {
	FieldName string `json:"fieldName"`
	Action    string `json:"action"`
	Info      string `json:"info"`
}
