package utils

import (
	"github.com/wneessen/go-mail"

	"adaayam_back_end/internal/config"
	"adaayam_back_end/internal/models"
)

// SMTPMailer envoie les e-mails transactionnels via go-mail.
type SMTPMailer struct {
	cfg config.Config
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendOrderPaid envoie la confirmation de paiement d'une commande.
func (m *SMTPMailer) SendOrderPaid(order models.Order, user models.User) error {
	msg := mail.NewMsg()

	if err := msg.From(m.cfg.MailFrom); err != nil {
		return err
	}
	if err := msg.To(user.Email); err != nil {
		return err
	}
	msg.Subject("Pembayaran diterima — pesanan " + order.PaymentReference)
	msg.SetBodyString(mail.TypeTextHTML, GenerateOrderPaidHTML(order, user.FullName))

	client, err := mail.NewClient(m.cfg.SMTPHost,
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.SMTPUsername),
		mail.WithPassword(m.cfg.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	return client.DialAndSend(msg)
}
