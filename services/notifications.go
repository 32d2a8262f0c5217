package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"
)

// NotificationService handles all push notification logic
type NotificationService struct{}

// NewNotificationService creates a new notification service instance
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotificationData represents the data payload for notifications
type NotificationData struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	PropertyID string `json:"propertyId,omitempty"`
	UserID     string `json:"userId,omitempty"`
	// Deep linking data
	Screen string `json:"screen"`           // Target screen to navigate to
	Params string `json:"params"`           // JSON string of navigation parameters
	Action string `json:"action,omitempty"` // Specific action to perform
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// SendNotificationToUser sends a notification to a specific user
func (ns *NotificationService) SendNotificationToUser(userID uint, title, body string, data NotificationData) error {
	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("Failed to get push tokens for user %d: %v", userID, err)
		return err
	}

	dataMap := map[string]string{
		"type":       data.Type,
		"id":         data.ID,
		"propertyId": data.PropertyID,
		"userId":     data.UserID,
		"screen":     data.Screen,
		"params":     data.Params,
		"action":     data.Action,
	}

	var lastError error
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, dataMap); err != nil {
			log.Printf("Failed to send notification to token %s: %v", token, err)
			lastError = err
		}
	}

	return lastError
}

// SendMessageNotification sends notification when a message is received
func (ns *NotificationService) SendMessageNotification(recipientID, senderID uint, senderName, propertyTitle, threadID string) error {
	title := "New Message"
	body := fmt.Sprintf("%s sent you a message about %s", senderName, propertyTitle)

	params := fmt.Sprintf(`{"threadId": %q, "senderName": %q}`, threadID, senderName)

	data := NotificationData{
		Type:   "message_received",
		ID:     threadID,
		UserID: fmt.Sprintf("%d", senderID),
		Screen: "Messages",
		Params: params,
		Action: "view_conversation",
	}

	return ns.SendNotificationToUser(recipientID, title, body, data)
}

// SendListingStatusNotification sends notification when a listing's
// moderation status changes
func (ns *NotificationService) SendListingStatusNotification(propertyID, ownerID uint, propertyTitle, status string) error {
	var title, body string

	switch status {
	case "approved":
		title = "Listing Approved"
		body = fmt.Sprintf("Your listing '%s' was approved and is now live.", propertyTitle)
	case "rejected":
		title = "Listing Rejected"
		body = fmt.Sprintf("Your listing '%s' was rejected. Review the notes and resubmit.", propertyTitle)
	default:
		title = "Listing Update"
		body = fmt.Sprintf("The status of your listing '%s' changed to %s.", propertyTitle, status)
	}

	params := fmt.Sprintf(`{"propertyId": %d, "status": %q}`, propertyID, status)

	data := NotificationData{
		Type:       "listing_status_changed",
		ID:         fmt.Sprintf("%d", propertyID),
		PropertyID: fmt.Sprintf("%d", propertyID),
		Screen:     "MyListings",
		Params:     params,
		Action:     "view_listing",
	}

	return ns.SendNotificationToUser(ownerID, title, body, data)
}

// SendVerificationStatusNotification tells a user their identity
// verification was decided
func (ns *NotificationService) SendVerificationStatusNotification(userID uint, status string) error {
	var title, body string
	if status == "approved" {
		title = "Verification Approved"
		body = "Your identity verification was approved. Your listings now show a verified badge."
	} else {
		title = "Verification Update"
		body = fmt.Sprintf("Your identity verification status changed to %s.", status)
	}

	data := NotificationData{
		Type:   "verification_status",
		UserID: fmt.Sprintf("%d", userID),
		Screen: "Profile",
	}

	return ns.SendNotificationToUser(userID, title, body, data)
}

// SendWelcomeNotificationToNewUser sends welcome notification to new users
func (ns *NotificationService) SendWelcomeNotificationToNewUser(userID uint, firstName string) error {
	title := "Welcome to Guanacaste Real Estate"
	body := fmt.Sprintf("Hi %s! Browse homes, lots and condos across Guanacaste.", firstName)

	data := NotificationData{
		Type:   "welcome",
		UserID: fmt.Sprintf("%d", userID),
	}

	return ns.SendNotificationToUser(userID, title, body, data)
}

// Global notification service instance
var NotificationServiceInstance = NewNotificationService()
