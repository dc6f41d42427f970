package repository

import "github.com/disgoorg/snowflake/v2"

func snowflakeID(value uint64) snowflake.ID {
	return snowflake.ID(value)
}
