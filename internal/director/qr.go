package director

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/promo2video/internal/failure"
	"github.com/ivlev/promo2video/internal/scene"
)

const qrPrefix = "qr:"

// QRHandle renders url as a QR code bitmap of size pixels. An encoding
// failure travels inside the handle, like any other broken asset.
func QRHandle(url string, size int) scene.ImageHandle {
	id := qrPrefix + url
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return scene.FailedHandle(id, failure.Asset("qr code", fmt.Errorf("%s: %w", url, err)))
	}
	q.DisableBorder = true
	return scene.NewHandle(id, q.Image(size))
}

// qrTarget returns the encoded url of a handle created by QRHandle
func qrTarget(id string) (string, bool) {
	if !strings.HasPrefix(id, qrPrefix) {
		return "", false
	}
	return strings.TrimPrefix(id, qrPrefix), true
}
