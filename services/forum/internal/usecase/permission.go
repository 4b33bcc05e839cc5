package usecase

const RoleAdmin = "ADMIN"

// CanModify is the single ownership rule for editing and deleting comments:
// the author or any admin.
func CanModify(actingUserID int64, actingRole string, authorID int64) bool {
	return actingUserID == authorID || actingRole == RoleAdmin
}
