package mailer

import "fmt"

// Notification bodies sent after order and account events. Plain text,
// matching what the order flows expect.

func OrderCreatedJob(to, product, client string, quantity int) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Order Created Successfully",
		Text:    fmt.Sprintf("Your order %q for %q was created successfully with quantity %d.", product, client, quantity),
	}
}

func OrderUpdatedJob(to, product, status string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Order Updated",
		Text:    fmt.Sprintf("Your order %q was updated to status %q.", product, status),
	}
}

func PasswordResetJob(to, resetLink string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Password Recovery",
		Text:    fmt.Sprintf("Hi, use this link to reset your password: %s", resetLink),
	}
}
