package gateway

import "fmt"

// DeliveryError means every retry attempt failed with a retryable condition.
type DeliveryError struct {
	Attempts    int
	LastMessage string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("gateway: delivery failed after %d attempts: %s", e.Attempts, e.LastMessage)
}

// StatusError is a terminal gateway rejection; it is raised immediately
// without retrying.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway: rejected with status %d: %s", e.StatusCode, e.Body)
}
