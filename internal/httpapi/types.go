package httpapi

type webhookRequest struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type startQuizRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type startQuizResponse struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}
