package repo

import "github.com/xxxsen/ragway/internal/pkg/dbutil"

// gendry emits MySQL-style placeholders; rebind for postgres.
func finalize(query string, args []interface{}) (string, []interface{}) {
	return dbutil.Finalize(query, args)
}
