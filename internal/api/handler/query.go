package handler

import "strconv"

// parseInt reads a numeric query parameter, zero on absence or garbage.
// Services apply their own defaults and clamps.
func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}
