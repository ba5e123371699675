package common

type ErrorResponse struct {
	Code string `json:"code,omitempty"`
}

type EnqueueResponse struct {
	Job *EnqueueRequest `json:"job"`
}
