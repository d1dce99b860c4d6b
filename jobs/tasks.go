package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeOrderConfirm is the task type for order confirmation emails.
	TaskTypeOrderConfirm = "order:confirm"
	// TaskTypeLowStockScan is the task type for the low stock sweep.
	TaskTypeLowStockScan = "stock:lowscan"
)

// OrderConfirmPayload carries what the confirmation email needs. Amounts
// are minor currency units.
type OrderConfirmPayload struct {
	OrderCode     string `json:"orderCode"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	PayableAmount int64  `json:"payableAmount"`
	ItemCount     int    `json:"itemCount"`
}

// NewOrderConfirmTask constructs an Asynq task.
func NewOrderConfirmTask(payload OrderConfirmPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeOrderConfirm, data), nil
}

// NewLowStockScanTask constructs the periodic low stock task.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeLowStockScan, nil)
}

// Mailer sends transactional mail. SMTPMailer talks to a real relay;
// tests substitute their own.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers over plain SMTP.
type SMTPMailer struct {
	Addr string
	From string
}

func (m SMTPMailer) Send(to, subject, body string) error {
	msg := []byte("From: " + m.From + "\r\nTo: " + to + "\r\nSubject: " + subject + "\r\n\r\n" + body + "\r\n")
	return smtp.SendMail(m.Addr, nil, m.From, []string{to}, msg)
}

// OrderConfirmJob sends the confirmation email after checkout.
type OrderConfirmJob struct {
	Mailer  Mailer
	To      string
	Logger  *slog.Logger
	printer *message.Printer
}

func NewOrderConfirmJob(mailer Mailer, notifyAddr string, logger *slog.Logger) *OrderConfirmJob {
	return &OrderConfirmJob{Mailer: mailer, To: notifyAddr, Logger: logger, printer: message.NewPrinter(language.English)}
}

// Handle processes TaskTypeOrderConfirm tasks.
func (j *OrderConfirmJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload OrderConfirmPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	subject := "Order " + payload.OrderCode + " received"
	body := j.printer.Sprintf("New order %s from %s (%s): %d item(s), payable %.2f",
		payload.OrderCode, payload.CustomerName, payload.CustomerPhone, payload.ItemCount, float64(payload.PayableAmount)/100)
	if j.Mailer == nil || j.To == "" {
		j.Logger.Info("order confirmation (mail disabled)", slog.String("order", payload.OrderCode))
		return nil
	}
	if err := j.Mailer.Send(j.To, subject, body); err != nil {
		j.Logger.Error("order confirmation mail failed", slog.String("order", payload.OrderCode), slog.Any("error", err))
		return err
	}
	j.Logger.Info("order confirmation sent", slog.String("order", payload.OrderCode))
	return nil
}
