package holiday

import "errors"

var (
	ErrDayOffNotFound   = errors.New("company day off not found")
	ErrDayOffDateExists = errors.New("a company day off already exists on this date")
)
