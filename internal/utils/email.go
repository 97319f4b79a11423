package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strconv"

	"bocal_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendOrderEmail envoie l'e-mail de confirmation de commande, avec le reçu
// PDF en pièce jointe quand il a pu être généré.
func SendOrderEmail(to, subject, htmlBody string, receiptPDF []byte) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@bocal.example.com"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if receiptPDF != nil {
		msg.AttachReader("recu_bocal.pdf", bytes.NewReader(receiptPDF))
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		port = p
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail de confirmation à", to)
	return client.DialAndSend(msg)
}

// GenerateOrderConfirmationHTML génère le corps HTML de la confirmation.
func GenerateOrderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f€</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f€</td>
			</tr>`, item.Name, item.Quantity, item.UnitPrice, item.UnitPrice*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #3b5d3a;">🫙 Bocal — Votre commande est confirmée</h2>
		<p>Bonjour,</p>
		<p>Merci pour votre commande ! Elle sera expédiée à l'adresse suivante :</p>
		<p style="background-color: #f0f4ef; padding: 12px; border-radius: 6px;">%s</p>

		<h3>Détails de la commande #%s</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>

		<p style="font-size: 18px; text-align: right;"><strong>Total : %.2f€</strong></p>
		<p style="color: #666; font-size: 13px;">Vous pouvez suivre votre commande depuis votre tableau de bord.</p>
	</div>
</body>
</html>`, order.Address, order.ID, itemsHTML, order.Total)
}
