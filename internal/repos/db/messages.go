package db

const (
	failedToStartTransaction = "failed-to-start-transaction"

	failedToCountRowsAffected = "failed-to-count-rows-affected"
	failedToScanRow           = "failed-to-scan-row"
	failedToIterateOverRows   = "failed-to-iterate-over-rows"
	failedToParseUUID         = "failed-to-parse-uuid"

	errGroupAlreadyExists = "group-already-exists"
	errGroupNotFound      = "group-not-found"
	errGroupConflict      = "group-modified-concurrently"

	failedToCreateGroup = "failed-to-create-group"
	failedToFindGroup   = "failed-to-find-group"
	failedToUpdateGroup = "failed-to-update-group"
	failedToListGroups  = "failed-to-list-groups"

	errPermissionAlreadyExists = "group-permission-already-exists"

	failedToCreateGroupPermission  = "failed-to-create-group-permission"
	failedToDeleteGroupPermissions = "failed-to-delete-group-permissions"
	failedToFindGroupPermissions   = "failed-to-find-group-permissions"

	errMembershipNotFound = "membership-not-found"

	failedToCreateMembership = "failed-to-create-membership"
	failedToDeleteMembership = "failed-to-delete-membership"
	failedToFindMembership   = "failed-to-find-membership"
	failedToListMembers      = "failed-to-list-members"
	failedToListUserGroups   = "failed-to-list-user-groups"

	failedToReplaceUserPermissions = "failed-to-replace-user-permissions"
	failedToFindUserPermissions    = "failed-to-find-user-permissions"

	errDefaultGroupNotFound = "default-group-not-found"

	failedToSetDefaultGroup  = "failed-to-set-default-group"
	failedToFindDefaultGroup = "failed-to-find-default-group"
)
