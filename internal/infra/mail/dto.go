package mail

// EmailSender delivers quote emails over SMTP.
type EmailSender struct {
	Host        string
	Port        int
	User        string
	Password    string
	From        string
	TemplateDir string
}

// QuoteEmailData feeds the quote email template.
type QuoteEmailData struct {
	Name           string
	PlanType       string
	State          string
	CurrentCarrier string
	EffectiveDate  string
	Notes          string
}
