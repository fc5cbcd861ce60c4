package widget

import (
	"errors"
	"fmt"
)

var (
	ErrClosed     = errors.New("widget closed")
	ErrSuperseded = errors.New("refresh superseded")
)

type ContainerNotFoundError struct {
	ContainerID string
}

func (e *ContainerNotFoundError) Error() string {
	return fmt.Sprintf("container element with id %q not found", e.ContainerID)
}
