package mines

import "errors"

// Rejections. Each is wrapped with a message carrying the violated bound, so
// callers should match with [errors.Is].
var (
	ErrInvalidWidth        = errors.New("invalid width")
	ErrInvalidHeight       = errors.New("invalid height")
	ErrInvalidMineCount    = errors.New("invalid mine count")
	ErrInvalidGameIdFormat = errors.New("invalid game id format")
	ErrGameNotFound        = errors.New("game not found")
	ErrGameCompleted       = errors.New("game completed")
	ErrInvalidRow          = errors.New("invalid row")
	ErrInvalidCol          = errors.New("invalid col")
	ErrCellAlreadyOpen     = errors.New("cell already open")
)

var rejections = []error{
	ErrInvalidWidth,
	ErrInvalidHeight,
	ErrInvalidMineCount,
	ErrInvalidGameIdFormat,
	ErrGameNotFound,
	ErrGameCompleted,
	ErrInvalidRow,
	ErrInvalidCol,
	ErrCellAlreadyOpen,
}

// IsRejection reports whether err is caused by client input or game state
// rather than by a fault in the server.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return "assertion failed: " + e.message
}
