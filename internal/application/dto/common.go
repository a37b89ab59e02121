package dto

// ErrorResponse cuerpo de error HTTP. Message nombra el estado actual y la acción rechazada
// cuando el error es una transición inválida.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
