package response

import "net/http"

// codeMsgMap 状态码 → 对外默认文案
var codeMsgMap = map[int]string{
	http.StatusBadRequest:            "Bad request",
	http.StatusUnauthorized:          "Authentication required",
	http.StatusForbidden:             "Access denied",
	http.StatusNotFound:              "Not found",
	http.StatusConflict:              "Conflict",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusTooManyRequests:       "Too many requests",
	http.StatusInternalServerError:   "Internal server error",
	http.StatusServiceUnavailable:    "Server busy",
	http.StatusGatewayTimeout:        "Request timeout",
}

func DefaultMsg(status int) string {
	if m, ok := codeMsgMap[status]; ok {
		return m
	}
	return http.StatusText(status)
}
