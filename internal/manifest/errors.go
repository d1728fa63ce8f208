package manifest

import "errors"

var (
	ErrDecode        = errors.New("manifest: malformed document")
	ErrUnknownParent = errors.New("manifest: unknown parent")
	ErrNoSuchParent  = errors.New("manifest: no such parent")
	ErrDuplicatePath = errors.New("manifest: path already exists")
	ErrLockHeld      = errors.New("manifest: unable to acquire lock")
	ErrParentCycle   = errors.New("manifest: parent cycle")
	ErrInvalidItem   = errors.New("manifest: invalid item")
)
