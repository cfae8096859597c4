package engine

const (
	starting = "starting"
	success  = "success"

	failedToCheckAuthorization = "failed-to-check-authorization"

	errAccessDenied  = "access-denied"
	errGroupNotFound = "group-not-found"

	retryingGroupWrite         = "retrying-group-write"
	skippedDepartedMember      = "skipped-departed-member"
	failedToCascadePermissions = "failed-to-cascade-permissions"
)
