package mail

type ImportReportEmailData struct {
	CadenceName  string
	TotalSuccess int
	TotalError   int
	Total        int
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}
