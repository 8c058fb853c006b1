package services

// IsOwner reports whether the caller owns the resource. Both the user
// module (self-only profile access) and the listing module (owner-only
// writes) go through this single predicate.
func IsOwner(ownerID, callerID string) bool {
	return ownerID != "" && ownerID == callerID
}

// requireOwner converts a failed ownership check into ErrForbidden.
func requireOwner(ownerID, callerID string) error {
	if !IsOwner(ownerID, callerID) {
		return ErrForbidden
	}
	return nil
}
