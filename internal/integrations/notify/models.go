package notify

// EmailMessage письмо для отправки
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
	HTML    string
}
