// Package formaterror turns storage errors into form field messages.
package formaterror

import "strings"

// FormatError maps a database error message onto the form field it concerns.
// Unknown errors land under "form".
func FormatError(err string) map[string]string {
	errorMessages := map[string]string{}
	lower := strings.ToLower(err)

	switch {
	case strings.Contains(lower, "username") && isUniqueViolation(lower):
		errorMessages["username"] = "A user with that username already exists"
	case strings.Contains(lower, "email") && isUniqueViolation(lower):
		errorMessages["email"] = "Email already taken"
	case strings.Contains(lower, "slug") && isUniqueViolation(lower):
		errorMessages["slug"] = "A group with that slug already exists"
	case strings.Contains(lower, "record not found"):
		errorMessages["form"] = "Incorrect username or password"
	case strings.Contains(lower, "hashedpassword"):
		errorMessages["password"] = "Incorrect username or password"
	default:
		errorMessages["form"] = "Something went wrong, please try again"
	}
	return errorMessages
}

func isUniqueViolation(lower string) bool {
	return strings.Contains(lower, "unique") || strings.Contains(lower, "duplicate")
}
