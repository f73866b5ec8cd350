package email

import (
	"fmt"

	"giftlist/internal/models"
)

func (s *Service) generateWelcomeHTML(user *models.User) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Welcome to Giftlist</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1);
        }
        .logo {
            font-size: 28px;
            font-weight: bold;
            color: #8c3f5d;
            margin-bottom: 10px;
        }
        .cta-button {
            display: inline-block;
            background-color: #8c3f5d;
            color: white;
            padding: 12px 24px;
            text-decoration: none;
            border-radius: 6px;
            font-weight: 500;
        }
        .footer {
            margin-top: 30px;
            font-size: 13px;
            color: #888;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">Giftlist</div>
        <p>Hi %s,</p>
        <p>Your account is ready. Create an event, add the gifts you are
        hoping for, and share the list address with your guests.</p>
        <p><a class="cta-button" href="%s/dashboard">Open your dashboard</a></p>
        <div class="footer">You received this email because an account was
        created with this address on Giftlist.</div>
    </div>
</body>
</html>`, user.Name, s.baseURL)
}

func (s *Service) generateWelcomeText(user *models.User) string {
	return fmt.Sprintf(`Hi %s,

Your Giftlist account is ready. Create an event, add the gifts you are
hoping for, and share the list address with your guests.

Open your dashboard: %s/dashboard

You received this email because an account was created with this address
on Giftlist.`, user.Name, s.baseURL)
}

func (s *Service) generateReservationHTML(owner *models.User, event *models.Event, item *models.GiftItem, purchase *models.Purchase) string {
	paymentNote := "The guest will confirm the purchase through their confirmation link."
	if purchase.PaymentType == models.PaymentPix {
		paymentNote = "The guest chose to pay by PIX. Confirm the purchase from your dashboard once the transfer arrives."
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Gift reserved</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #8c3f5d;">A gift was reserved!</h2>
    <p>Hi %s,</p>
    <p><strong>%s</strong> reserved <strong>%s</strong> (R$ %.2f) on your
    list <strong>%s</strong>.</p>
    <p>%s</p>
    <p><a href="%s/dashboard" style="color: #8c3f5d;">Open your dashboard</a></p>
</body>
</html>`, owner.Name, purchase.BuyerName, item.Name, purchase.Amount, event.Title, paymentNote, s.baseURL)
}

func (s *Service) generateReservationText(owner *models.User, event *models.Event, item *models.GiftItem, purchase *models.Purchase) string {
	paymentNote := "The guest will confirm the purchase through their confirmation link."
	if purchase.PaymentType == models.PaymentPix {
		paymentNote = "The guest chose to pay by PIX. Confirm the purchase from your dashboard once the transfer arrives."
	}

	return fmt.Sprintf(`Hi %s,

%s reserved %q (R$ %.2f) on your list %q.

%s

Open your dashboard: %s/dashboard`,
		owner.Name, purchase.BuyerName, item.Name, purchase.Amount, event.Title, paymentNote, s.baseURL)
}
