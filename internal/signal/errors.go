package signal

import "errors"

var (
	ErrMissingRoomID   = errors.New("roomId is null")
	ErrEmptyInviteList = errors.New("invited list is empty")

	ErrCallerBusy    = errors.New("you are busy")
	ErrInviteeBusy   = errors.New("the invitee is busy")
	ErrAlreadyInRoom = errors.New("already a member of the room")

	ErrInviteeOffline  = errors.New("the invitee is offline or doesn't exist")
	ErrNoViableInvitee = errors.New("status of all invitees is busy, offline or absent")

	ErrRoomFull = errors.New("join room failed, exceeded maximum quantity limit")
)

// Wire codes for the failure envelope, one per error class.
const (
	CodeValidation     = 1000
	CodeBusy           = 1001
	CodeUnavailable    = 1002
	CodeCapacity       = 1003
	CodeIntegrity      = 1004
	CodeAuthentication = 1005
)

func CodeOf(err error) int {
	switch {
	case errors.Is(err, ErrMissingRoomID), errors.Is(err, ErrEmptyInviteList):
		return CodeValidation
	case errors.Is(err, ErrCallerBusy), errors.Is(err, ErrInviteeBusy), errors.Is(err, ErrAlreadyInRoom):
		return CodeBusy
	case errors.Is(err, ErrInviteeOffline), errors.Is(err, ErrNoViableInvitee):
		return CodeUnavailable
	case errors.Is(err, ErrRoomFull):
		return CodeCapacity
	default:
		return CodeValidation
	}
}
