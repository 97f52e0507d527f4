package utils

import (
	"bytes"
	"campus_eats/config"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/jordan-wright/email"
	"gopkg.in/gomail.v2"
)

const orderConfirmationTemplate = "templates/order_confirmation.html"

type OrderConfirmationLine struct {
	Name      string
	Quantity  int
	LineTotal string
}

type OrderConfirmationData struct {
	OrderCode    string
	CustomerName string
	Lines        []OrderConfirmationLine
	Subtotal     string
	Discount     string
	Total        string
	Points       int
	DetailLink   string
}

type smtpSettings struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func loadSMTP() (smtpSettings, bool) {
	host := config.Config("SMTP_HOST")
	if host == "" {
		return smtpSettings{}, false
	}
	port, err := strconv.Atoi(config.Config("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return smtpSettings{
		host:     host,
		port:     port,
		username: config.Config("SMTP_USERNAME"),
		password: config.Config("SMTP_PASSWORD"),
		from:     config.Config("SMTP_FROM"),
	}, true
}

func RenderOrderConfirmation(data OrderConfirmationData) (string, error) {
	tmpl, err := template.ParseFiles(orderConfirmationTemplate)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// SendOrderConfirmationEmail mails the order summary in the background. It is a
// no-op when SMTP is not configured.
func SendOrderConfirmationEmail(to string, data OrderConfirmationData) {
	settings, ok := loadSMTP()
	if !ok {
		return
	}
	go func() {
		body, err := RenderOrderConfirmation(data)
		if err != nil {
			slog.Error("render order confirmation", "order", data.OrderCode, "error", err)
			return
		}

		m := gomail.NewMessage()
		m.SetHeader("From", settings.from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", "CampusEats order #"+data.OrderCode)
		m.SetBody("text/html", body)

		d := gomail.NewDialer(settings.host, settings.port, settings.username, settings.password)
		if err := d.DialAndSend(m); err != nil {
			slog.Error("send order confirmation", "order", data.OrderCode, "error", err)
		}
	}()
}

func couponRefundText(couponName string, points int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The coupon %q you purchased has been withdrawn.\n", couponName)
	fmt.Fprintf(&b, "%d points were returned to your loyalty account.\n", points)
	return b.String()
}

// SendCouponRefundNotice tells holders of a deleted coupon that their points
// were returned. It is a no-op when SMTP is not configured.
func SendCouponRefundNotice(recipients []string, couponName string, points int) {
	settings, ok := loadSMTP()
	if !ok || len(recipients) == 0 {
		return
	}
	go func() {
		addr := settings.host + ":" + strconv.Itoa(settings.port)
		auth := smtp.PlainAuth("", settings.username, settings.password, settings.host)
		for _, to := range recipients {
			e := email.NewEmail()
			e.From = settings.from
			e.To = []string{to}
			e.Subject = "Coupon refunded: " + couponName
			e.Text = []byte(couponRefundText(couponName, points))
			if err := e.Send(addr, auth); err != nil {
				slog.Error("send coupon refund notice", "to", to, "error", err)
			}
		}
	}()
}
