package config

const (
	HCType          = "Content-Type"
	HETag           = "ETag"
	HCacheControl   = "Cache-Control"
	HAuthorization  = "Authorization"
	HAccept         = "Accept"
	HReferer        = "Referer"
	HVary           = "Vary"
	HRequestID      = "X-Request-Id"
	BearerPrefix    = "Bearer "
	MultipartMaxMem = 32 << 20

	CTypeCSS  = "text/css"
	CTypeHTML = "text/html; charset=utf-8"
	CTypeJSON = "application/json"
)

const (
	CookieTheme     = "theme"
	CookieSession   = "blogfront_session"
	CookieSessionID = "blogfront_sid"
)

const (
	QueryMessage = "msg"
	QueryMode    = "mode"
	QueryUndo    = "undo"
	ModeSignup   = "signup"
)
