package service

import "anoa.com/campusbridge/internal/model"

// CanSend decides whether sender may address a message at the given role
// and branch. Pure; the caller resolves the concrete recipients afterwards.
//
// Authority is ordered official > teacher > student, with teacher authority
// scoped to the teacher's own branch. A nil targetBranch from a teacher
// means "my branch", matching the resolver default.
func CanSend(sender *model.User, targetRole model.Role, targetBranch *string) bool {
	if sender == nil || !targetRole.Valid() {
		return false
	}

	switch sender.Role {
	case model.RoleOfficial:
		return true
	case model.RoleTeacher:
		if targetRole != model.RoleStudent || sender.Branch == nil {
			return false
		}
		return targetBranch == nil || *targetBranch == *sender.Branch
	case model.RoleStudent:
		return targetRole == model.RoleStudent
	}

	return false
}
