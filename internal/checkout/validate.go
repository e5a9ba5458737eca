package checkout

import (
	"regexp"
	"strings"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// defaultCountry is prefilled when the form leaves country blank.
const defaultCountry = "United States"

// validateShipping checks that every shipping field is non-empty, returning
// per-field messages. The address is normalized (trimmed, country defaulted)
// in place.
func validateShipping(addr *models.ShippingAddress) error {
	addr.FirstName = strings.TrimSpace(addr.FirstName)
	addr.LastName = strings.TrimSpace(addr.LastName)
	addr.Email = strings.TrimSpace(addr.Email)
	addr.Address = strings.TrimSpace(addr.Address)
	addr.City = strings.TrimSpace(addr.City)
	addr.State = strings.TrimSpace(addr.State)
	addr.ZipCode = strings.TrimSpace(addr.ZipCode)
	addr.Country = strings.TrimSpace(addr.Country)
	if addr.Country == "" {
		addr.Country = defaultCountry
	}

	fields := make(map[string]string)
	if addr.FirstName == "" {
		fields["first_name"] = "First name is required"
	}
	if addr.LastName == "" {
		fields["last_name"] = "Last name is required"
	}
	if addr.Email == "" {
		fields["email"] = "Email is required"
	}
	if addr.Address == "" {
		fields["address"] = "Address is required"
	}
	if addr.City == "" {
		fields["city"] = "City is required"
	}
	if addr.State == "" {
		fields["state"] = "State is required"
	}
	if addr.ZipCode == "" {
		fields["zip_code"] = "ZIP code is required"
	}
	return apperrors.NewValidationErrors(fields)
}

// validatePayment is a format-only gate: 16-digit card number (whitespace
// ignored), non-empty holder name, MM/YY expiry, 3-4 digit CVV. No
// authorization happens anywhere in this service.
func validatePayment(details PaymentDetails) error {
	fields := make(map[string]string)

	if !cardNumberPattern.MatchString(stripSpaces(details.CardNumber)) {
		fields["card_number"] = "Enter a valid 16-digit card number"
	}
	if strings.TrimSpace(details.CardName) == "" {
		fields["card_name"] = "Cardholder name is required"
	}
	if !expiryPattern.MatchString(details.Expiry) {
		fields["expiry"] = "Enter expiry as MM/YY"
	}
	if !cvvPattern.MatchString(details.CVV) {
		fields["cvv"] = "Enter a valid CVV"
	}
	return apperrors.NewValidationErrors(fields)
}

// maskCard reduces a validated card number to its stored descriptor.
func maskCard(cardNumber string) string {
	digits := stripSpaces(cardNumber)
	return "****" + digits[len(digits)-4:]
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
