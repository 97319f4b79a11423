package utils

import (
	"context"
	"encoding/base64"
	"time"

	"bocal_back_end/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RenderReceiptPDF imprime le reçu HTML de la commande en PDF via Chrome
// headless. Appelé uniquement depuis la notification best-effort : un échec
// (pas de Chrome sur la machine, timeout) est logué et l'e-mail part sans
// pièce jointe.
func RenderReceiptPDF(order models.Order) ([]byte, error) {
	html := GenerateOrderConfirmationHTML(order)
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}
