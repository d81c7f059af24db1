package model

// Response is the JSON envelope shared by every API endpoint.
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

func Success(data interface{}) Response {
	return Response{Data: data, Message: "Success"}
}

func Failure(errMsg, message string) Response {
	return Response{Error: &errMsg, Message: message}
}
