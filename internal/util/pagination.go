package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate clamps page and size and returns them with the row offset.
func Calculate(page, size int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size, (page - 1) * size
}

func TotalPages(total int64, size int) int64 {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}
