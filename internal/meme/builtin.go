package meme

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/text/language"
)

const overlaySize = 256

// face describes one procedurally drawn emoji.
type face struct {
	fill  color.Color
	eyes  func(dc *gg.Context)
	mouth func(dc *gg.Context)
	brows func(dc *gg.Context)
}

var (
	yellow = color.RGBA{R: 0xff, G: 0xcc, B: 0x33, A: 0xff}
	red    = color.RGBA{R: 0xe8, G: 0x4a, B: 0x3c, A: 0xff}
	blue   = color.RGBA{R: 0x9c, G: 0xc3, B: 0xe6, A: 0xff}
	green  = color.RGBA{R: 0xa8, G: 0xd0, B: 0x5c, A: 0xff}
	purple = color.RGBA{R: 0xc9, G: 0xb6, B: 0xe4, A: 0xff}
	grey   = color.RGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}
)

var builtinCaptions = map[string]map[string]string{
	"happiness": {"en": "LIVING MY BEST LIFE", "sv": "BÄSTA DAGEN NÅGONSIN", "es": "VIVIENDO MI MEJOR VIDA"},
	"surprise":  {"en": "WAIT, WHAT?", "sv": "VÄNTA, VA?", "es": "¿ESPERA, QUÉ?"},
	"anger":     {"en": "I AM NOT ANGRY", "sv": "JAG ÄR INTE ARG", "es": "NO ESTOY ENOJADO"},
	"sadness":   {"en": "WHY ME", "sv": "VARFÖR JAG", "es": "POR QUÉ YO"},
	"fear":      {"en": "NOPE NOPE NOPE", "sv": "NEJ NEJ NEJ", "es": "NO NO NO"},
	"disgust":   {"en": "EW", "sv": "USCH", "es": "QUÉ ASCO"},
	"contempt":  {"en": "HOW QUAINT", "sv": "HUR GULLIGT", "es": "QUÉ TIERNO"},
	"neutral":   {"en": "MEH", "sv": "MJA", "es": "PSS"},
	"unknown":   {"en": "NO IDEA", "sv": "INGEN ANING", "es": "NI IDEA"},
}

var builtinFaces = map[string]face{
	"happiness": {fill: yellow, eyes: dotEyes, mouth: smile},
	"surprise":  {fill: yellow, eyes: wideEyes, mouth: openMouth},
	"anger":     {fill: red, eyes: dotEyes, mouth: frown, brows: angryBrows},
	"sadness":   {fill: blue, eyes: dotEyes, mouth: frown, brows: sadBrows},
	"fear":      {fill: purple, eyes: wideEyes, mouth: wavyMouth},
	"disgust":   {fill: green, eyes: squintEyes, mouth: wavyMouth},
	"contempt":  {fill: yellow, eyes: dotEyes, mouth: smirk},
	"neutral":   {fill: yellow, eyes: dotEyes, mouth: flatMouth},
	"unknown":   {fill: grey, eyes: dotEyes, mouth: flatMouth},
}

// Builtin returns the catalog shipped with the binary: drawn emoji overlays
// with captions in English, Swedish and Spanish. English is the default
// locale.
func Builtin() *Catalog {
	entries := make([]Entry, 0, len(builtinFaces)*3)
	for emotion, f := range builtinFaces {
		overlay := f.draw()
		for locale, caption := range builtinCaptions[emotion] {
			entries = append(entries, Entry{
				Emotion:    emotion,
				Locale:     language.Make(locale),
				Decoration: Decoration{Overlay: overlay, Caption: caption},
			})
		}
	}

	fallback := Decoration{
		Overlay: face{fill: grey, eyes: dotEyes, mouth: openMouth}.draw(),
		Caption: "???",
	}

	c, err := NewCatalog(language.English, fallback, entries)
	if err != nil {
		// every builtin overlay is drawn above
		panic(err)
	}
	return c
}

func (f face) draw() image.Image {
	dc := gg.NewContext(overlaySize, overlaySize)

	dc.DrawCircle(128, 128, 120)
	dc.SetColor(f.fill)
	dc.FillPreserve()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(6)
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(8)
	dc.SetLineCap(gg.LineCapRound)
	if f.eyes != nil {
		f.eyes(dc)
	}
	if f.brows != nil {
		f.brows(dc)
	}
	if f.mouth != nil {
		f.mouth(dc)
	}

	return dc.Image()
}

func dotEyes(dc *gg.Context) {
	dc.DrawCircle(88, 100, 12)
	dc.DrawCircle(168, 100, 12)
	dc.Fill()
}

func wideEyes(dc *gg.Context) {
	dc.SetRGB(1, 1, 1)
	dc.DrawCircle(88, 96, 24)
	dc.DrawCircle(168, 96, 24)
	dc.FillPreserve()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(4)
	dc.Stroke()
	dc.DrawCircle(88, 96, 10)
	dc.DrawCircle(168, 96, 10)
	dc.Fill()
	dc.SetLineWidth(8)
}

func squintEyes(dc *gg.Context) {
	dc.DrawLine(70, 92, 104, 104)
	dc.DrawLine(70, 116, 104, 104)
	dc.DrawLine(186, 92, 152, 104)
	dc.DrawLine(186, 116, 152, 104)
	dc.Stroke()
}

func angryBrows(dc *gg.Context) {
	dc.DrawLine(64, 64, 112, 84)
	dc.DrawLine(192, 64, 144, 84)
	dc.Stroke()
}

func sadBrows(dc *gg.Context) {
	dc.DrawLine(64, 80, 108, 64)
	dc.DrawLine(192, 80, 148, 64)
	dc.Stroke()
}

func smile(dc *gg.Context) {
	dc.DrawArc(128, 140, 60, 0.15*math.Pi, 0.85*math.Pi)
	dc.Stroke()
}

func frown(dc *gg.Context) {
	dc.DrawArc(128, 220, 56, 1.2*math.Pi, 1.8*math.Pi)
	dc.Stroke()
}

func openMouth(dc *gg.Context) {
	dc.DrawEllipse(128, 180, 22, 30)
	dc.Fill()
}

func wavyMouth(dc *gg.Context) {
	dc.MoveTo(80, 184)
	dc.QuadraticTo(96, 168, 112, 184)
	dc.QuadraticTo(128, 200, 144, 184)
	dc.QuadraticTo(160, 168, 176, 184)
	dc.Stroke()
}

func smirk(dc *gg.Context) {
	dc.DrawLine(96, 184, 150, 184)
	dc.Stroke()
	dc.DrawArc(150, 170, 14, 0, 0.5*math.Pi)
	dc.Stroke()
}

func flatMouth(dc *gg.Context) {
	dc.DrawLine(88, 180, 168, 180)
	dc.Stroke()
}
