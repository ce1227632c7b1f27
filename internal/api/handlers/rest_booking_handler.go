package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"coastline/villas/internal/booking"
	"coastline/villas/internal/config"
	"coastline/villas/internal/contentstore"
	"coastline/villas/internal/models"
	"coastline/villas/internal/tasks"
)

const msgClientInitFailed = "Server error during client initialization."

// IAsynqClient defines the interface for the Asynq client methods used by the handler.
// This allows easier mocking than using the concrete asynq.Client.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RestBookingHandler handles guest booking submissions.
type RestBookingHandler struct {
	writeClients  contentstore.WriteClientFactory
	taskClient    IAsynqClient
	operatorEmail string
	appName       string
	now           func() time.Time
}

// NewRestBookingHandler creates a new RestBookingHandler. taskClient may be nil, in which
// case no notification mail is queued.
func NewRestBookingHandler(writeClients contentstore.WriteClientFactory, taskClient IAsynqClient, cfg *config.Config) *RestBookingHandler {
	return &RestBookingHandler{
		writeClients:  writeClients,
		taskClient:    taskClient,
		operatorEmail: cfg.OperatorEmail,
		appName:       cfg.AppName,
		now:           time.Now,
	}
}

// SubmitBooking handles /api/submit-booking for every method.
// Each call gets its own write client; a failed write is reported and never retried.
func (h *RestBookingHandler) SubmitBooking(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": booking.MsgMethodNotAllowed})
		return
	}

	ctx := c.Request.Context()

	writeClient, err := h.writeClients.NewWriteClient(ctx)
	if err != nil {
		if cfgErr := booking.IsConfigurationError(err); cfgErr != nil {
			log.Printf("ERROR: Client Init Error: %v", cfgErr)
			c.JSON(http.StatusInternalServerError, gin.H{"message": cfgErr.Error()})
			return
		}
		log.Printf("ERROR: Client Init Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgClientInitFailed})
		return
	}

	sub, err := booking.DecodeSubmission(c.Request.Body)
	if err == nil {
		err = booking.Validate(sub)
	}
	if err != nil {
		if vErr := booking.IsValidationError(err); vErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Message()})
			return
		}
		log.Printf("ERROR: Unexpected error validating booking submission: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": booking.MsgInvalidFields})
		return
	}

	doc := booking.BuildDocument(sub, h.now())

	bookingID, err := writeClient.CreateBookingRequest(ctx, doc)
	if err != nil {
		pErr := &booking.PersistenceError{Err: err}
		log.Printf("ERROR: Content store write error: %v", pErr)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": booking.MsgWriteFailed,
			"error":   pErr.Error(),
		})
		return
	}

	log.Printf("Successfully created booking request document: %s", bookingID)
	h.enqueueNotifications(ctx, bookingID, doc)

	c.JSON(http.StatusOK, gin.H{
		"message":   booking.MsgCreated,
		"bookingId": bookingID,
	})
}

// enqueueNotifications queues the operator and guest mails. The booking is already stored,
// so failures here are logged only.
func (h *RestBookingHandler) enqueueNotifications(ctx context.Context, bookingID string, doc *models.BookingRequestDocument) {
	if h.taskClient == nil {
		return
	}
	notifications, err := tasks.BookingNotificationTasks(doc, bookingID, h.operatorEmail, h.appName)
	if err != nil {
		log.Printf("WARN: Failed to build notification tasks for booking %s: %v", bookingID, err)
		return
	}
	for _, task := range notifications {
		if _, err := h.taskClient.EnqueueContext(ctx, task); err != nil {
			log.Printf("WARN: Failed to enqueue %s task for booking %s: %v", task.Type(), bookingID, err)
		}
	}
}
