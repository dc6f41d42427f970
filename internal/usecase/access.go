package usecase

import "github.com/ferdian3456/staffroster/internal/model"

func IsAdministrator(caller model.Caller) bool {
	return caller.Administrator
}

// IsModerator grants moderation to administrators and to members of any
// moderator role.
func IsModerator(caller model.Caller, state model.GuildState) bool {
	if caller.Administrator {
		return true
	}
	return caller.HasAnyRole(state.ModeratorRoles)
}
