package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"cinebook/internal/data/entity"
	"cinebook/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const receiptQRSize = 256

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"seats": func(seats []int) string {
		parts := make([]string, len(seats))
		for i, s := range seats {
			parts[i] = fmt.Sprint(s)
		}
		return strings.Join(parts, ", ")
	},
}).Parse(`<h2>Your booking for {{.MovieName}}</h2>
<p>{{.CinemaName}}, {{.HallName}}<br>{{.ScreeningTime.Format "Mon 02 Jan 2006 15:04"}}</p>
<p>Seats: {{seats .SeatNumbers}}</p>
<p>Total: {{printf "%.2f" .Total}}</p>
<p>Checkout reference: {{.CheckoutID}}</p>`))

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends bill receipts over SMTP.
type Mailer struct {
	from   string
	sender sender
	log    *zap.Logger
}

func New(config utils.EmailConfig, log *zap.Logger) *Mailer {
	return &Mailer{
		from:   config.From,
		sender: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
		log:    log.With(zap.String("component", "mailer")),
	}
}

func (m *Mailer) SendBillReceipt(ctx context.Context, to string, bill *entity.BillDetail) error {
	msg, err := m.buildReceipt(to, bill)
	if err != nil {
		return err
	}

	// gomail has no context support; at least skip work for a cancelled caller.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send receipt to %s: %w", to, err)
	}

	m.log.Info("Bill receipt sent",
		zap.String("checkout_id", bill.CheckoutID.String()),
		zap.Int("seats", len(bill.SeatNumbers)),
	)
	return nil
}

func (m *Mailer) buildReceipt(to string, bill *entity.BillDetail) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := receiptTemplate.Execute(&body, bill); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your tickets for "+bill.MovieName)
	msg.SetBody("text/html", body.String())

	qr, err := utils.GenerateQRCode(bill.CheckoutID.String(), receiptQRSize)
	if err != nil {
		m.log.Warn("Receipt sent without QR code", zap.Error(err))
		return msg, nil
	}

	filename := fmt.Sprintf("ticket_%s.png", bill.CheckoutID.String()[:8])
	msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(qr)
		return err
	}))

	return msg, nil
}
