package utils

import "strconv"

// StrToInt64 parses a decimal string as an int64. Handlers use it for
// path parameters.
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
