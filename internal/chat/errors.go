package chat

import "errors"

var (
	// ErrRoomNotFound: the conversation id does not resolve.
	ErrRoomNotFound = errors.New("chat: room not found")
	// ErrProductNotFound: StartRoom was called for an unknown product.
	ErrProductNotFound = errors.New("chat: product not found")
	// ErrPartyNotFound: customer or merchant id does not resolve.
	ErrPartyNotFound = errors.New("chat: party not found")
	// ErrForbidden: sender identity does not match the room's owner for that role.
	ErrForbidden = errors.New("chat: sender does not belong to this room")
	// ErrEmptyContent: message body is empty after trimming.
	ErrEmptyContent = errors.New("chat: message content must not be empty")
)
