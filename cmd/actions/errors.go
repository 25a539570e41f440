package actions

import "fmt"

type usageError struct {
	usage string
}

func (e *usageError) Error() string {
	return fmt.Sprintf("usage: %s", e.usage)
}

type outOfRangeError struct {
	what  string
	index int
	count int
}

func (e *outOfRangeError) Error() string {
	if e.count == 0 {
		return fmt.Sprintf("there is no %s to choose", e.what)
	}
	return fmt.Sprintf(
		"no %s %d (choose 1 to %d)",
		e.what, e.index, e.count,
	)
}
