package domain

// ValidationMessages provides human-readable validation error messages
// These map validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"alpha":    "Must contain only alphabetic characters",
	"min":      "Below minimum length",
	"max":      "Exceeds maximum length",
	"gt":       "Must be greater than minimum value",
	"gte":      "Must be greater than or equal to minimum value",
	"datetime": "Must be a valid date in YYYY-MM-DD format",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
