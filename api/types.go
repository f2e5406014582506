package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	adminHandler   adminHandler
	healthHandler  healthHandler
}

// envelope is the response shape of every mutating endpoint and of errors.
type envelope struct {
	Success bool   `json:"success"`
	Project any    `json:"project,omitempty"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// idRequest is the body of /vote, /nominate and /clear-votes.
type idRequest struct {
	ID string `json:"id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

type livenessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Store     string `json:"store"`
	UptimeSec int64  `json:"uptimeSeconds"`
}
