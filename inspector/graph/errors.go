package graph

import "github.com/cockroachdb/errors"

var (
	// ErrSymbolCollision is returned when two scope definitions claim the same name
	ErrSymbolCollision = errors.New("symbol collision")
	// ErrIllegalProperty is returned for overwritten or inconsistent property accessors
	ErrIllegalProperty = errors.New("illegal property")
	// ErrDuplicateConstructor is returned when a class declares a second scripting constructor
	ErrDuplicateConstructor = errors.New("duplicate constructor")
	// ErrRepeatLimit is returned when a resource field repeat count is negative or exceeds MaxRepeatCount
	ErrRepeatLimit = errors.New("repeat count out of range")
)
