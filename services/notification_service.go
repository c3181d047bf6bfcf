// services/notification_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"laundrypro-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// NotificationService dispatches WhatsApp messages to riders and customers.
// Every send is best-effort: a delivery failure is logged and reported as a
// boolean, never surfaced as an error to the caller's transaction.
type NotificationService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotificationService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// SendPickupAssignment notifies the rider about a freshly assigned service
// request: a request summary, a map location when the address carries
// coordinates, and the tokenized pickup link. Returns true only when every
// message was accepted by Twilio.
func (s *NotificationService) SendPickupAssignment(request *models.ServiceRequest, rider *models.Rider, pickupURL string) bool {
	if rider == nil || rider.Mobile == "" {
		return false
	}

	customerName := ""
	if request.Customer != nil {
		customerName = request.Customer.Name
	}

	serviceDate := "not scheduled"
	if request.ServiceDate != nil {
		serviceDate = request.ServiceDate.Format("2006-01-02")
	}

	summary := fmt.Sprintf(
		"New pickup %s\nCustomer: %s\nDate: %s %s\nAddress: %s",
		request.RequestNumber, customerName, serviceDate, request.TimeSlot, formatAddress(request.Address),
	)

	sent := s.sendWhatsApp(rider.Mobile, summary)

	if request.Address != nil && request.Address.HasCoordinates() {
		mapLink := fmt.Sprintf("https://maps.google.com/?q=%f,%f",
			*request.Address.Latitude, *request.Address.Longitude)
		sent = s.sendWhatsApp(rider.Mobile, mapLink) && sent
	}

	sent = s.sendWhatsApp(rider.Mobile, "Build the order here: "+pickupURL) && sent

	return sent
}

// SendPickupReminder tells the customer their pickup is scheduled today.
func (s *NotificationService) SendPickupReminder(request *models.ServiceRequest) bool {
	if request.Customer == nil || request.Customer.Mobile == "" {
		return false
	}
	message := fmt.Sprintf(
		"Reminder: your laundry pickup %s is scheduled today %s. Keep your items ready!",
		request.RequestNumber, request.TimeSlot,
	)
	return s.sendWhatsApp(request.Customer.Mobile, message)
}

func (s *NotificationService) sendWhatsApp(to, body string) bool {
	if !strings.HasPrefix(to, "+") {
		to = "+" + to
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:" + to)
	params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send WhatsApp message to %s: %v", to, err)
		return false
	}
	if resp.Sid != nil {
		log.Printf("WhatsApp message sent to %s, SID: %s", to, *resp.Sid)
	} else {
		log.Printf("WhatsApp message sent to %s, but no SID returned", to)
	}
	return true
}

// StartScheduler runs the daily pickup reminder pass at 8 AM.
func (s *NotificationService) StartScheduler() {
	c := cron.New()

	c.AddFunc("0 8 * * *", func() {
		s.SendDailyPickupReminders()
	})

	c.Start()
	log.Println("Pickup reminder scheduler started")
}

// SendDailyPickupReminders messages every customer whose pending or confirmed
// service request is scheduled for today.
func (s *NotificationService) SendDailyPickupReminders() {
	log.Println("Starting daily pickup reminder processing...")

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var requests []models.ServiceRequest
	err := s.db.Preload("Customer").
		Where("service_date >= ? AND service_date < ? AND status IN ?",
			dayStart, dayEnd,
			[]string{models.RequestStatusPending, models.RequestStatusConfirmed, models.RequestStatusRiderAssigned}).
		Find(&requests).Error
	if err != nil {
		log.Printf("Failed to fetch today's service requests: %v", err)
		return
	}

	for i := range requests {
		s.SendPickupReminder(&requests[i])
	}

	log.Println("Daily pickup reminder processing completed")
}

func formatAddress(a *models.Address) string {
	if a == nil {
		return ""
	}
	if a.Formatted != "" {
		return a.Formatted
	}
	parts := []string{}
	for _, p := range []string{a.Building, a.Road, a.Block, a.City, a.Governorate} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
