package constant

import "time"

// Display ceilings shown next to the counters. They are labels only, stored
// counters are never capped.
const (
	WarnCeiling   = 2
	StrikeCeiling = 3
)

const (
	DocumentConfig = "config"
	DocumentState  = "data"
)

const (
	RosterTitle        = "👮 Staff list"
	RosterVacantMarker = "— **Vacant**"
	ModerationTitle    = "🛑 **Moderation**"
	ControlPanelPrompt = "Choose an action:"
)

// Discord embed limits.
const (
	EmbedMaxFields     = 25
	EmbedMaxFieldValue = 1024
)

// Component custom ids.
const (
	ButtonControlPanel = "staff:panel"
	ButtonAddStaffRole = "staff:add_role"
	ButtonAddModRole   = "staff:add_mod_role"
	ButtonIssueWarning = "moderation:warn"
)

// Slash command names.
const (
	CommandSetStaffChannel      = "set_staff_channel"
	CommandSetModerationChannel = "set_moderation_channel"
	CommandSetLogChannel        = "set_log_channel"
	CommandRefreshStaffTable    = "refresh_staff_table"
)

const (
	DefaultFlowTimeout   = 2 * time.Minute
	DefaultSweepInterval = 15 * time.Second
)
