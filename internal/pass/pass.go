// Package pass renders printable booking passes (PNG and PDF) with a QR code
// pointing back to the member's bookings.
package pass

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/fitnesshub/web/internal/types"
	"github.com/fogleman/gg"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// Layout positions (for a 1200x630 pass)
	width      = 1200
	height     = 630
	bandHeight = 150
	marginX    = 70
	titleY     = 250
	trainerY   = 310
	whenY      = 390
	statusY    = 450
	memberY    = 510
	refY       = 580
	qrBoxX     = 850
	qrBoxY     = 210
	qrBoxSize  = 300
	qrSize     = 270

	maxTitleLen = 32
	dateLayout  = "Monday, January 2, 2006 at 15:04"
)

var ErrMissingClass = errors.New("booking has no class details")

var (
	brandColor = color.RGBA{37, 99, 235, 255}
	textColor  = color.RGBA{31, 41, 55, 255}
	mutedColor = color.RGBA{107, 114, 128, 255}
	cancelRed  = color.RGBA{220, 38, 38, 255}
)

// Details is everything printed on a pass
type Details struct {
	BookingID   string
	ClassTitle  string
	ClassType   string
	TrainerName string
	MemberName  string
	At          time.Time
	Status      string
	VerifyURL   string
}

// DetailsFor builds pass details from a booking with a populated class
func DetailsFor(b types.Booking, member *types.User, baseURL string) (Details, error) {
	if !b.Class.Populated() {
		return Details{}, ErrMissingClass
	}
	d := Details{
		BookingID:   b.ID,
		ClassTitle:  b.Class.Doc.Title,
		ClassType:   b.Class.Doc.Type,
		TrainerName: b.TrainerName(),
		At:          b.BookingDate,
		Status:      b.Status,
		VerifyURL:   strings.TrimRight(baseURL, "/") + "/my-bookings?booking=" + b.ID,
	}
	if member != nil {
		d.MemberName = member.Name
	}
	return d, nil
}

// RenderPNG draws the pass and returns it PNG-encoded
func RenderPNG(d Details) ([]byte, error) {
	img, err := render(d)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF places the pass image on a letter-size page
func RenderPDF(d Details) ([]byte, error) {
	pngData, err := RenderPNG(d)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetTitle("FitnessHub booking pass", true)
	pdf.AddPage()

	// Letter landscape is 279.4mm x 215.9mm
	imgWidth := 240.0
	imgHeight := imgWidth * height / width
	x := (279.4 - imgWidth) / 2
	y := 25.0

	name := "pass-" + d.BookingID
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(pngData))
	pdf.ImageOptions(name, x, y, imgWidth, imgHeight, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(107, 114, 128)
	pdf.SetXY(x, y+imgHeight+8)
	pdf.MultiCell(imgWidth, 6, "Show this pass at the front desk. Scan the code to view your bookings.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func render(d Details) (*image.RGBA, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// header band
	dc.SetColor(brandColor)
	dc.DrawRectangle(0, 0, width, bandHeight)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(truetype.NewFace(bold, &truetype.Options{Size: 56}))
	dc.DrawStringAnchored("FitnessHub", marginX, bandHeight/2, 0, 0.35)
	dc.SetFontFace(truetype.NewFace(regular, &truetype.Options{Size: 28}))
	dc.DrawStringAnchored("Class Pass", width-marginX, bandHeight/2, 1, 0.35)

	// QR box border
	dc.SetColor(color.RGBA{229, 231, 235, 255})
	dc.SetLineWidth(4)
	dc.DrawRoundedRectangle(qrBoxX, qrBoxY, qrBoxSize, qrBoxSize, 16)
	dc.Stroke()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), dc.Image(), image.Point{}, draw.Src)

	drawText(img, truncateText(d.ClassTitle, maxTitleLen), marginX, titleY, bold, 48, textColor)
	if d.TrainerName != "" {
		drawText(img, "with "+d.TrainerName, marginX, trainerY, regular, 30, mutedColor)
	}
	if !d.At.IsZero() {
		drawText(img, d.At.Format(dateLayout), marginX, whenY, regular, 30, textColor)
	}
	drawText(img, statusLabel(d.Status), marginX, statusY, bold, 28, statusColor(d.Status))
	if d.MemberName != "" {
		drawText(img, "Member: "+d.MemberName, marginX, memberY, regular, 26, textColor)
	}
	drawText(img, "Ref: "+formatPartialID(d.BookingID), marginX, refY, regular, 22, mutedColor)

	if d.VerifyURL != "" {
		qr, err := qrcode.New(d.VerifyURL, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("failed to generate QR code: %w", err)
		}
		qrImg := qr.Image(qrSize)
		b := qrImg.Bounds()
		qx := qrBoxX + (qrBoxSize-b.Dx())/2
		qy := qrBoxY + (qrBoxSize-b.Dy())/2
		draw.Draw(img, image.Rect(qx, qy, qx+b.Dx(), qy+b.Dy()), qrImg, image.Point{}, draw.Over)
	}
	if d.ClassType != "" {
		drawCenteredText(img, d.ClassType, qrBoxX+qrBoxSize/2, qrBoxY+qrBoxSize+45, bold, 26, brandColor)
	}

	return img, nil
}

// drawText draws text with its baseline at (x, y)
func drawText(img *image.RGBA, text string, x, y int, f *truetype.Font, size float64, c color.Color) {
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(c))
	ctx.SetHinting(font.HintingFull)

	_, _ = ctx.DrawString(text, freetype.Pt(x, y))
}

// drawCenteredText draws text centered on centerX
func drawCenteredText(img *image.RGBA, text string, centerX, y int, f *truetype.Font, size float64, c color.Color) {
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	w := font.MeasureString(face, text)
	drawText(img, text, centerX-w.Round()/2, y, f, size, c)
}

func statusLabel(status string) string {
	if status == "" {
		return "PENDING"
	}
	return strings.ToUpper(status)
}

func statusColor(status string) color.Color {
	if status == types.BookingCancelled {
		return cancelRed
	}
	return brandColor
}

// formatPartialID shows the first and last 4 characters of an id
func formatPartialID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "..." + id[len(id)-4:]
}

func truncateText(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength-3]) + "..."
}
