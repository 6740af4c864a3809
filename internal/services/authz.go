package services

// CanMutate decides whether the caller may mutate a resource: only its
// recorded owner may. It is deliberately a pure function so every mutation
// path shares the same rule. Callers that fail this check are authenticated
// but not permitted, and must get a 403, never a 401.
func CanMutate(resourceOwnerID, callerID string) bool {
	return resourceOwnerID != "" && resourceOwnerID == callerID
}
