package util

import (
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// ParseRoleID accepts a bare numeric id or a role mention like <@&123>.
func ParseRoleID(input string) (snowflake.ID, bool) {
	value := strings.TrimSpace(input)
	value = strings.TrimPrefix(value, "<@&")
	value = strings.TrimSuffix(value, ">")

	return ParseID(value)
}

// ParseID parses a numeric snowflake. Zero is rejected.
func ParseID(input string) (snowflake.ID, bool) {
	value := strings.TrimSpace(input)
	if value == "" {
		return 0, false
	}

	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	id, err := snowflake.Parse(value)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}
