package mail

import (
	"fmt"

	"kloudcart/internal/model"
)

const dateLayout = "January 2, 2006 at 3:04 PM"

func plainBody(snapshot model.OrderSnapshot) string {
	return fmt.Sprintf(`Dear Valued Customer,

Thank you for your order on KloudCart!

Order Details:
- Order ID: %s
- Order Date: %s
- Total Amount: Rs. %.2f

Your receipt is attached to this email. Please keep it for your records.

If you have any questions about your order, please don't hesitate to contact our support team.

Thank you for shopping with KloudCart!

Best regards,
KloudCart Team
support@kloudcart.com
`, snapshot.OrderID, snapshot.CreatedAt.Format(dateLayout), snapshot.Total)
}

func htmlBody(snapshot model.OrderSnapshot) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">
      Thank you for your order!
    </h2>

    <p>Dear Valued Customer,</p>

    <p>Thank you for your order on <strong>KloudCart</strong>!</p>

    <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
      <h3 style="color: #2c3e50; margin-top: 0;">Order Details:</h3>
      <ul style="list-style: none; padding: 0;">
        <li><strong>Order ID:</strong> %s</li>
        <li><strong>Order Date:</strong> %s</li>
        <li><strong>Total Amount:</strong> Rs. %.2f</li>
      </ul>
    </div>

    <p>Your receipt is attached to this email. Please keep it for your records.</p>

    <p>Thank you for shopping with <strong>KloudCart</strong>!</p>

    <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee;">
      <p style="color: #666; font-size: 14px;">
        Best regards,<br>
        <strong>KloudCart Team</strong><br>
        <a href="mailto:support@kloudcart.com" style="color: #3498db;">support@kloudcart.com</a>
      </p>
    </div>
  </div>
</body>
</html>`, snapshot.OrderID, snapshot.CreatedAt.Format(dateLayout), snapshot.Total)
}
