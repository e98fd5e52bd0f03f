package services

import (
	"fmt"
	"log"
)

// notifyJob is one queued notification. Delivery is best-effort: failures
// are logged and never reach the request that scheduled the job.
type notifyJob struct {
	to      string
	subject string
	body    string
}

// Notifier schedules order emails on an in-process queue, decoupled from
// the HTTP request path. Jobs carry no ordering or delivery guarantee and
// cannot be cancelled once enqueued.
type Notifier struct {
	mailer Mailer
	jobs   chan notifyJob
	done   chan struct{}
}

var notifierInstance *Notifier

// InitNotifier creates the notifier backed by the given mailer and starts
// its worker goroutine
func InitNotifier(mailer Mailer) *Notifier {
	notifierInstance = NewNotifier(mailer)
	return notifierInstance
}

// GetNotifier returns the initialized notifier instance
func GetNotifier() *Notifier {
	return notifierInstance
}

// SetNotifier sets the notifier instance (primarily for testing)
func SetNotifier(n *Notifier) {
	notifierInstance = n
}

// NewNotifier builds a notifier and starts its delivery worker
func NewNotifier(mailer Mailer) *Notifier {
	n := &Notifier{
		mailer: mailer,
		jobs:   make(chan notifyJob, 64),
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *Notifier) run() {
	defer close(n.done)
	for job := range n.jobs {
		if err := n.mailer.Send(job.to, job.subject, job.body); err != nil {
			log.Printf("Failed to send notification to %s: %v", job.to, err)
		}
	}
}

// Stop closes the queue and waits for in-flight deliveries to finish.
// Intended for shutdown and tests; Notify* must not be called afterwards.
func (n *Notifier) Stop() {
	close(n.jobs)
	<-n.done
}

func (n *Notifier) enqueue(job notifyJob) {
	select {
	case n.jobs <- job:
	default:
		// Queue full. Notifications are best-effort, so drop rather
		// than block the request path.
		log.Printf("Notification queue full, dropping message to %s", job.to)
	}
}

// NotifyOrderCreated schedules the order confirmation email
func (n *Notifier) NotifyOrderCreated(to, orderID, pickupDate string) {
	body := fmt.Sprintf(`
    <h3>Order Confirmed!</h3>
    <p>Thank you for choosing FreshAI Laundry.</p>
    <p>Your order <b>#%s</b> has been received and is scheduled for pickup on <b>%s</b>.</p>
    <br>
    <p>You can track your order status on your dashboard.</p>
    `, orderID, pickupDate)

	n.enqueue(notifyJob{
		to:      to,
		subject: fmt.Sprintf("Order Confirmation #%s", orderID),
		body:    body,
	})
}

// NotifyStatusChanged schedules the status update email
func (n *Notifier) NotifyStatusChanged(to, orderID, newStatus string) {
	body := fmt.Sprintf(`
    <h3>Order Update</h3>
    <p>The status of your order <b>#%s</b> has been updated.</p>
    <p>New Status: <b>%s</b></p>
    <br>
    <p>Thank you for using FreshAI Laundry.</p>
    `, orderID, newStatus)

	n.enqueue(notifyJob{
		to:      to,
		subject: fmt.Sprintf("Order Update #%s - %s", orderID, newStatus),
		body:    body,
	})
}
