package types

// Public error types returned in the "type" field of HTTP error responses.
// Clients dispatch on these values, so they are part of the API contract.
const (
	PublicHTTPErrorTypeGeneric            = "generic"
	PublicHTTPErrorTypeInvalidPayload     = "invalid_payload"
	PublicHTTPErrorTypeValidation         = "validation_error"
	PublicHTTPErrorTypeBuild              = "build_error"
	PublicHTTPErrorTypeMalformedSignature = "malformed_signature"
	PublicHTTPErrorTypeExpiredTransaction = "expired_transaction"
	PublicHTTPErrorTypeCredential         = "credential_error"
	PublicHTTPErrorTypeInsufficientFunds  = "insufficient_funds"
	PublicHTTPErrorTypeNetworkCongestion  = "network_congestion"
	PublicHTTPErrorTypeNetworkUnavailable = "network_unavailable"
	PublicHTTPErrorTypeAlreadyMinted      = "already_minted"
	PublicHTTPErrorTypeNotFound           = "not_found"
	PublicHTTPErrorTypeAccessDenied       = "access_denied"
)

// PublicHTTPError is the JSON shape of every error response.
type PublicHTTPError struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}
