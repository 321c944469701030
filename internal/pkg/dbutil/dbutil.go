package dbutil

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// gendry targets MySQL: it emits "?" placeholders and "LIMIT offset, count".
// Finalize rewrites both into the Postgres forms before execution.

var mysqlLimitRe = regexp.MustCompile(`(?i)LIMIT\s+\?\s*,\s*\?`)

func Finalize(query string, args []interface{}) (string, []interface{}) {
	if loc := mysqlLimitRe.FindStringIndex(query); loc != nil {
		// gendry orders the pair as (offset, count); LIMIT ? OFFSET ?
		// wants (count, offset), so the two args swap places.
		pos := strings.Count(query[:loc[0]], "?")
		if pos+1 < len(args) {
			args[pos], args[pos+1] = args[pos+1], args[pos]
			query = mysqlLimitRe.ReplaceAllString(query, "LIMIT ? OFFSET ?")
		}
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

// IsConflict reports whether err is a Postgres unique violation.
func IsConflict(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
