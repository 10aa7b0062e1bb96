package queries

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ValidatePage returns a 1-based page number.
func ValidatePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func offset(page, limit int) int {
	return (page - 1) * limit
}
