package mail

import (
	"context"
	"fmt"

	"github.com/prodseal/go-backend/internal/cfg"
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Notifier отправляет письма о завершении сертификации по SMTP.
// Вызывающий код трактует любую ошибку как некритичную.
type Notifier struct {
	dialer *gomail.Dialer
	cfg    *cfg.SMTPCfg
	logger logger.Logger
}

func NewNotifier(cfg *cfg.SMTPCfg, logger logger.Logger) *Notifier {
	return &Notifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		cfg:    cfg,
		logger: logger,
	}
}

// SendCompletionEmail отправляет владельцу продукта письмо с номером печати,
// ссылкой верификации и подписанными ссылками на артефакты.
func (n *Notifier) SendCompletionEmail(ctx context.Context, req *usecase.CompletionEmailReq) error {
	const op = "Notifier.SendCompletionEmail"

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.cfg.From)
	msg.SetHeader("To", req.To)
	msg.SetHeader("Subject", fmt.Sprintf("Certification completed: %s", req.ProductName))
	msg.SetBody("text/html", completionBody(req))

	// gomail не принимает контекст, отправка выполняется в отдельной горутине.
	done := make(chan error, 1)
	go func() {
		done <- n.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(op, err)
		}
		return nil
	case <-ctx.Done():
		return e.Wrap(op, ctx.Err())
	}
}

func completionBody(req *usecase.CompletionEmailReq) string {
	return fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Certification of <b>%s</b> is complete.</p>
		<p>Seal number: <b>%s</b></p>
		<p><a href="%s">Verify the certificate</a></p>
		<p><a href="%s">Download the certificate (PDF)</a> &middot; <a href="%s">QR code</a></p>
	`, req.HolderName, req.ProductName, req.SealNumber, req.VerifyURL, req.PdfURL, req.QrURL)
}
