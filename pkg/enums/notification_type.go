package enums

import "fmt"

// NotificationType categorizes in-app notifications.
type NotificationType string

const (
	NotificationTypeItemAdded    NotificationType = "item_added"
	NotificationTypeCartReplaced NotificationType = "cart_replaced"
	NotificationTypeOrderPlaced  NotificationType = "order_placed"
	NotificationTypePromoApplied NotificationType = "promo_applied"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeItemAdded,
	NotificationTypeCartReplaced,
	NotificationTypeOrderPlaced,
	NotificationTypePromoApplied,
}

// IsValid reports whether the value matches the canonical notification type enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts the raw string to NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
