// Package sqlxrepos provides the Postgres-backed repository implementations.
package sqlxrepos

import "strconv"

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
