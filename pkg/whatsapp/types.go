package whatsapp

// SendMessageRequest is the outbound message payload for the Cloud API.
type SendMessageRequest struct {
	MessagingProduct string        `json:"messaging_product"`
	To               string        `json:"to"`
	Type             string        `json:"type"`
	Text             *TextPayload  `json:"text,omitempty"`
	Image            *MediaPayload `json:"image,omitempty"`
}

// TextPayload is the body of a text message.
type TextPayload struct {
	Body string `json:"body"`
}

// MediaPayload references hosted media by URL.
type MediaPayload struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

// SendMessageResponse is the Cloud API response envelope.
type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *APIError `json:"error,omitempty"`
}

// APIError is the Graph API error object.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// StatusNotification is one delivery-status entry from the webhook payload.
type StatusNotification struct {
	MessageID string        `json:"id"`
	Status    string        `json:"status"` // sent, delivered, read, failed
	Timestamp string        `json:"timestamp"`
	Recipient string        `json:"recipient_id"`
	Errors    []StatusError `json:"errors,omitempty"`
}

// StatusError describes why a message failed to deliver.
type StatusError struct {
	Code  int    `json:"code"`
	Title string `json:"title"`
}
