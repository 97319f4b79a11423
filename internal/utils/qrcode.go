package utils

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
)

// TrackingQR génère un QR code du lien de suivi de commande, en base64 prêt
// à mettre dans <img src="...">.
func TrackingQR(trackURL string) (string, error) {
	png, err := qrcode.Encode(trackURL, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
