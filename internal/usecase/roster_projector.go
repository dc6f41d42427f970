package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/model"
)

// RoleMembership maps a role id to its live membership. A tracked role
// missing from the map no longer exists in the guild.
type RoleMembership map[snowflake.ID]model.RoleMembers

// ProjectRoster builds one row per tracked role that still exists, in
// tracked order. Members without a counter record show zero counters and
// are listed in Materialized so the caller can persist them. The inputs
// are never modified.
func ProjectRoster(trackedRoles []snowflake.ID, membership RoleMembership, counters map[string]model.CounterRecord) model.Projection {
	projection := model.Projection{
		Rows: make([]model.RosterRow, 0, len(trackedRoles)),
	}
	seen := map[snowflake.ID]struct{}{}

	for _, roleId := range trackedRoles {
		roleMembers, ok := membership[roleId]
		if !ok {
			continue
		}

		if len(roleMembers.Members) == 0 {
			projection.Rows = append(projection.Rows, model.RosterRow{
				Role:   roleMembers.Role,
				Vacant: true,
			})
			continue
		}

		row := model.RosterRow{
			Role:  roleMembers.Role,
			Lines: make([]model.RosterLine, 0, len(roleMembers.Members)),
		}

		for _, member := range roleMembers.Members {
			record, ok := counters[member.Id.String()]
			if !ok {
				if _, dup := seen[member.Id]; !dup {
					seen[member.Id] = struct{}{}
					projection.Materialized = append(projection.Materialized, member.Id)
				}
			}

			row.Lines = append(row.Lines, model.RosterLine{
				Member: member,
				Warn:   record.Warn,
				Strike: record.Strike,
				Text:   FormatRosterLine(member, record),
			})
		}

		projection.Rows = append(projection.Rows, row)
	}

	return projection
}

func FormatRosterLine(member model.Member, record model.CounterRecord) string {
	return fmt.Sprintf("%s — %d/%d — %d/%d", member.Mention(), record.Warn, constant.WarnCeiling, record.Strike, constant.StrikeCeiling)
}

// RenderRoster turns rows into the roster message with the control panel
// button attached. A row whose lines overflow one field continues in the
// next field, and once the field cap is reached the rest is summarized in a
// final "+N more" field.
func RenderRoster(rows []model.RosterRow) model.OutgoingMessage {
	fields := make([]model.EmbedField, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, rosterFields(row)...)
	}

	if len(fields) > constant.EmbedMaxFields {
		kept := fields[:constant.EmbedMaxFields-1]
		hidden := 0
		for _, field := range fields[constant.EmbedMaxFields-1:] {
			hidden += max(1, strings.Count(field.Value, "\n"))
		}
		fields = append(kept, model.EmbedField{
			Name:  "…",
			Value: fmt.Sprintf("+%d more", hidden),
		})
	}

	return model.OutgoingMessage{
		Embed: &model.Embed{
			Title:  constant.RosterTitle,
			Fields: fields,
		},
		Buttons: []model.Button{
			{CustomId: constant.ButtonControlPanel, Label: "⚙️ Control panel", Style: model.ButtonSecondary},
		},
	}
}

func rosterFields(row model.RosterRow) []model.EmbedField {
	if row.Vacant {
		return []model.EmbedField{{Name: row.Role.Name, Value: constant.RosterVacantMarker}}
	}

	var fields []model.EmbedField
	var text strings.Builder
	flush := func() {
		name := row.Role.Name
		if len(fields) > 0 {
			name += " (cont.)"
		}
		fields = append(fields, model.EmbedField{Name: name, Value: text.String()})
		text.Reset()
	}

	for _, line := range row.Lines {
		entry := "• " + line.Text + "\n"
		if len(entry) > constant.EmbedMaxFieldValue {
			entry = truncate(line.Text, constant.EmbedMaxFieldValue-len("• …\n"))
			entry = "• " + entry + "…\n"
		}
		if text.Len()+len(entry) > constant.EmbedMaxFieldValue {
			flush()
		}
		text.WriteString(entry)
	}
	if text.Len() > 0 || len(fields) == 0 {
		flush()
	}

	return fields
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
