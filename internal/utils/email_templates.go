package utils

import (
	"fmt"
	"strings"

	"adaayam_back_end/internal/models"
)

// GenerateOrderPaidHTML construit le corps HTML de l'e-mail de confirmation
// de paiement d'une commande.
func GenerateOrderPaidHTML(order models.Order, userName string) string {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(`
                <tr>
                    <td style="padding: 10px; border-bottom: 1px solid #eeeeee;">%s</td>
                    <td style="padding: 10px; border-bottom: 1px solid #eeeeee; text-align: right;">%s kg</td>
                    <td style="padding: 10px; border-bottom: 1px solid #eeeeee; text-align: right;">Rp %s</td>
                    <td style="padding: 10px; border-bottom: 1px solid #eeeeee; text-align: right;">Rp %s</td>
                </tr>`,
			item.ProductName, item.QuantityKg.String(),
			item.PriceAtPurchase.String(), item.Subtotal.String()))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="id">
<head>
    <meta charset="UTF-8">
    <title>Pembayaran diterima</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5;">
    <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px;">
        <tr>
            <td style="background: linear-gradient(135deg, #f59e0b 0%%, #d97706 100%%); padding: 40px 30px; text-align: center; border-radius: 12px 12px 0 0;">
                <h1 style="margin: 0; color: #ffffff; font-size: 28px;">🐔 Ada Ayam</h1>
                <p style="margin: 12px 0 0 0; color: #ffffff; font-size: 16px;">Terima kasih, %s !</p>
            </td>
        </tr>
        <tr>
            <td style="padding: 30px;">
                <p style="color: #333333; font-size: 16px;">
                    Pembayaran untuk pesanan <strong>%s</strong> telah kami terima.
                    Pesanan Anda sedang disiapkan.
                </p>
                <table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
                    <tr style="background-color: #f8f9fa;">
                        <th style="padding: 10px; text-align: left;">Produk</th>
                        <th style="padding: 10px; text-align: right;">Berat</th>
                        <th style="padding: 10px; text-align: right;">Harga/kg</th>
                        <th style="padding: 10px; text-align: right;">Subtotal</th>
                    </tr>%s
                    <tr>
                        <td colspan="3" style="padding: 12px 10px; font-weight: 700; text-align: right;">Total</td>
                        <td style="padding: 12px 10px; font-weight: 700; text-align: right;">Rp %s</td>
                    </tr>
                </table>
                <p style="color: #666666; font-size: 14px;">Alamat pengiriman : %s</p>
            </td>
        </tr>
    </table>
</body>
</html>`,
		userName, order.PaymentReference, rows.String(),
		order.TotalAmount.String(), order.ShippingAddress)
}
