package enums

import "fmt"

// OrderStatus tracks the lifecycle of a storefront order.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// orderStatusArabic maps each status to the label the storefront renders.
var orderStatusArabic = map[OrderStatus]string{
	OrderStatusNew:        "جديد",
	OrderStatusProcessing: "قيد التنفيذ",
	OrderStatusCompleted:  "مكتمل",
	OrderStatusCancelled:  "ملغي",
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// ArabicLabel returns the Arabic display label for the status.
func (o OrderStatus) ArabicLabel() string {
	if label, ok := orderStatusArabic[o]; ok {
		return label
	}
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus. Both the English
// enum value and the Arabic display label are accepted.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value || orderStatusArabic[candidate] == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
