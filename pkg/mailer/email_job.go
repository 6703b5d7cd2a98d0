package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Text is the plain body; HTML is optional.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}
