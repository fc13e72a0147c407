package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for delivering one
// communication to one recipient. HTML is optional; Text is the fallback body.
type EmailJob struct {
	CommunicationID string `json:"communication_id"`
	Recipient       string `json:"recipient"`
	To              string `json:"to"`
	Subject         string `json:"subject"`
	Text            string `json:"text,omitempty"`
	HTML            string `json:"html,omitempty"`
}

// DeliveryReport is published back by the worker once a job has been handled.
type DeliveryReport struct {
	CommunicationID string `json:"communication_id"`
	Recipient       string `json:"recipient"`
	Status          string `json:"status"`
	Error           string `json:"error,omitempty"`
}
