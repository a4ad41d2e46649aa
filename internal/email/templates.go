package email

import "fmt"

const (
	shopName   = "Billions Laptops"
	footerText = "Billions Laptops — Your Trusted Laptop & Accessories Store"
)

// MerchantAlert renders the subject and body for the email a merchant receives
// when a customer writes about one of their products.
func MerchantAlert(merchantName, customerName, productName, content string, roomID uint64) (subject, body string) {
	subject = fmt.Sprintf("%s | New message from %s about %q", shopName, customerName, productName)
	body = fmt.Sprintf(
		"Hi %s,\n\n%s sent you a message about %q:\n\n\t%q\n\nOpen conversation #%d to reply.\n\n%s\n",
		merchantName, customerName, productName, content, roomID, footerText,
	)
	return subject, body
}

// CustomerReply renders the subject and body for the email a customer receives
// when the merchant replies in their conversation.
func CustomerReply(customerName, merchantName, productName, content string, roomID uint64) (subject, body string) {
	subject = fmt.Sprintf("%s | %s replied about %q", shopName, merchantName, productName)
	body = fmt.Sprintf(
		"Hi %s,\n\n%s replied to your enquiry about %q:\n\n\t%q\n\nOpen conversation #%d to continue.\n\n%s\n",
		customerName, merchantName, productName, content, roomID, footerText,
	)
	return subject, body
}

// Welcome renders the registration confirmation email.
func Welcome(name string) (subject, body string) {
	subject = fmt.Sprintf("%s | Your account is ready", shopName)
	body = fmt.Sprintf(
		"Hello %s,\n\nWelcome to %s. Your account has been successfully created.\n\n"+
			"If you did not request this account, please contact our support immediately.\n\n%s\n",
		name, shopName, footerText,
	)
	return subject, body
}
