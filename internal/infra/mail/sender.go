package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

// SendImportReport manda o resumo do import para quem iniciou o batch.
// Best-effort: o relatório já foi publicado no canal da sessão antes disso.
func (s *EmailSender) SendImportReport(to, cadenceName string, totalSuccess, totalError int) error {
	data := ImportReportEmailData{
		CadenceName:  cadenceName,
		TotalSuccess: totalSuccess,
		TotalError:   totalError,
		Total:        totalSuccess + totalError,
	}

	tmplPath := filepath.Join("templates", "import_report.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@outflow.io")
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Importação concluída: %s (%d ok, %d com erro)", cadenceName, totalSuccess, totalError))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
