package playback

import "errors"

var (
	// ErrInvalidReference indicates the input contained no usable video ID.
	ErrInvalidReference = errors.New("no valid YouTube video reference found")
	// ErrInvalidAction indicates an unrecognized control or overlay action.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidParameter indicates a malformed control parameter.
	ErrInvalidParameter = errors.New("seconds must be a positive number")
)
