package api

// Envelope codes of the Dearie backend. Every response, including HTTP
// error responses, wraps its payload in {code, message, result}.
const (
	// CodeSuccess signals logical success; any other code is an
	// application-level failure even on HTTP 200.
	CodeSuccess = "S000"

	// CodeTokenInvalid and CodeTokenExpired both mean the access token is
	// no longer usable and trigger the reissue flow.
	CodeTokenInvalid = "T001"
	CodeTokenExpired = "T002"
)

func isExpiryCode(code string) bool {
	return code == CodeTokenInvalid || code == CodeTokenExpired
}
