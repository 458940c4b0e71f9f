package checkout

import (
	"sort"
	"strings"

	"trendora/internal/domain"
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid checkout: " + strings.Join(parts, "; ")
}

// normalize trims input and fills the delivery and payment defaults.
func normalize(in domain.ShippingInfo) domain.ShippingInfo {
	out := domain.ShippingInfo{
		Name:          strings.TrimSpace(in.Name),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		DeliveryTime:  strings.TrimSpace(in.DeliveryTime),
		PaymentMethod: strings.ToLower(strings.TrimSpace(in.PaymentMethod)),
	}
	if out.DeliveryTime == "" {
		out.DeliveryTime = domain.DeliveryMorning
	}
	if out.PaymentMethod == "" {
		out.PaymentMethod = domain.PaymentESewa
	}
	return out
}

func validate(info domain.ShippingInfo, cartSize int) error {
	fields := map[string]string{}
	if info.Name == "" {
		fields["name"] = "name is required"
	}
	switch {
	case info.Phone == "":
		fields["phone"] = "phone is required"
	case !isTenDigits(info.Phone):
		fields["phone"] = "phone number must be 10 digits"
	}
	if info.Address == "" {
		fields["address"] = "address is required"
	}
	switch info.DeliveryTime {
	case domain.DeliveryMorning, domain.DeliveryAfternoon, domain.DeliveryEvening:
	default:
		fields["deliveryTime"] = "unknown delivery window"
	}
	switch info.PaymentMethod {
	case domain.PaymentESewa, domain.PaymentKhalti:
	default:
		fields["paymentMethod"] = "unsupported payment method"
	}
	if cartSize == 0 {
		fields["cart"] = "cart is empty"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
