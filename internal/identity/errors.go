package identity

import "errors"

var (
	ErrMissingUserID = errors.New("missing param: [userId]")
	ErrUserNotFound  = errors.New("user info doesn't exist")
	ErrAmbiguousUser = errors.New("user info matched more than one record")
	ErrStoreFailure  = errors.New("failed to query the user store")
)
