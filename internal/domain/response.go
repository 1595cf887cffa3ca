package domain

// SearchResponse is the pipeline result crossing the service boundary.
// Invariant: OffTopic implies empty Results and a non-empty Message.
type SearchResponse struct {
	Results  []Activity `json:"results"`
	OffTopic bool       `json:"off_topic,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// NewOffTopicResponse builds the refusal response for out-of-domain queries.
func NewOffTopicResponse(message string) SearchResponse {
	return SearchResponse{Results: []Activity{}, OffTopic: true, Message: message}
}

// NewEmptyResponse builds the degraded no-results response.
func NewEmptyResponse() SearchResponse {
	return SearchResponse{Results: []Activity{}}
}
