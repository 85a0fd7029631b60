package mailer

// EmailJob is the message published to the email queue. The worker renders
// nothing; subject and bodies arrive ready to send.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}
