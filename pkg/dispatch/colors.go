package dispatch

import (
	"image/color"

	"github.com/borgmon/soc-alerts/pkg/models"
)

var headerColors = map[models.Urgency]color.NRGBA{
	models.UrgencyLow:    {R: 0x29, G: 0x80, B: 0xb9, A: 0xff},
	models.UrgencyNormal: {R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
	models.UrgencyHigh:   {R: 0xc0, G: 0x39, B: 0x2b, A: 0xff},
}

var fallbackHeader = color.NRGBA{R: 0x95, G: 0xa5, B: 0xa6, A: 0xff}

// HeaderColor returns the popup header color for an urgency
func HeaderColor(u models.Urgency) color.NRGBA {
	if c, ok := headerColors[u]; ok {
		return c
	}
	return fallbackHeader
}
