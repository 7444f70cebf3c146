package dto

import "encoding/json"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ActionRequest body del endpoint genérico POST /api/actions.
// Action discrimina la operación puntual; Payload es JSON específico de cada acción.
type ActionRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// ActionResponse respuesta del endpoint genérico: {success, data|error}.
type ActionResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
