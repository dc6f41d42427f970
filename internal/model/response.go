package model

type RosterLineResponse struct {
	MemberId string `json:"memberId"`
	Name     string `json:"name"`
	Warn     int    `json:"warn"`
	Strike   int    `json:"strike"`
}

type RosterRowResponse struct {
	RoleId   string               `json:"roleId"`
	RoleName string               `json:"roleName"`
	Vacant   bool                 `json:"vacant"`
	Members  []RosterLineResponse `json:"members"`
}

type RosterResponse struct {
	GuildId string              `json:"guildId"`
	Rows    []RosterRowResponse `json:"rows"`
}

type MemberCountersResponse struct {
	MemberId      string `json:"memberId"`
	Warn          int    `json:"warn"`
	Strike        int    `json:"strike"`
	WarnCeiling   int    `json:"warnCeiling"`
	StrikeCeiling int    `json:"strikeCeiling"`
}
