package tickets

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/skip2/go-qrcode"
)

var ErrInvalidSignature = errors.New("gate code signature mismatch")

// GateCodePayload is the structured payload embedded in the gate QR symbol.
// For unactivated HARD stock the booking fields stay empty so physical
// tickets can be printed before sale; activation regenerates the payload with
// the booking reference filled in.
type GateCodePayload struct {
	TicketCode       string `json:"ticket_code"`
	BookingReference string `json:"booking_reference,omitempty"`
	Type             Type   `json:"type"`
	Timestamp        int64  `json:"timestamp"`
	EventID          string `json:"event_id"`
	CategoryID       string `json:"category_id"`
	EventTitle       string `json:"event_title,omitempty"`
	Sig              string `json:"sig"`
}

// CodeGenerator derives the scannable artifacts a ticket carries. The gate
// code is a signed QR payload; the activation code is a bare Code 128 barcode
// so staff cannot confuse the two at a glance.
type CodeGenerator struct {
	secret []byte
	qrSize int
}

func NewCodeGenerator(signingSecret string, qrSize int) *CodeGenerator {
	if qrSize <= 0 {
		qrSize = 256
	}
	return &CodeGenerator{secret: []byte(signingSecret), qrSize: qrSize}
}

// GatePayload builds the signed gate payload for a ticket. bookingRef is
// empty for unactivated HARD stock.
func (g *CodeGenerator) GatePayload(t *Ticket, bookingRef, eventTitle string) *GateCodePayload {
	p := &GateCodePayload{
		TicketCode:       t.TicketCode,
		BookingReference: bookingRef,
		Type:             t.Type,
		Timestamp:        time.Now().Unix(),
		EventID:          t.EventID.String(),
		CategoryID:       t.CategoryID.String(),
		EventTitle:       eventTitle,
	}
	p.Sig = g.sign(p)
	return p
}

// sign computes the HMAC-SHA256 over the canonical payload fields. The
// timestamp is included so a captured payload cannot be re-signed for a
// different ticket without the secret.
func (g *CodeGenerator) sign(p *GateCodePayload) string {
	canonical := strings.Join([]string{
		p.TicketCode,
		p.BookingReference,
		string(p.Type),
		fmt.Sprintf("%d", p.Timestamp),
		p.EventID,
		p.CategoryID,
	}, "|")

	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// EncodeGatePayload serializes the payload for embedding in the QR symbol.
func (g *CodeGenerator) EncodeGatePayload(p *GateCodePayload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// GateCodePNG renders the gate payload as a QR PNG.
func (g *CodeGenerator) GateCodePNG(p *GateCodePayload) ([]byte, error) {
	content, err := g.EncodeGatePayload(p)
	if err != nil {
		return nil, err
	}

	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to build gate QR: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(g.qrSize)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ActivationCodePNG renders the bare ticket code as a Code 128 barcode PNG.
// The payload is the code alone; booking and customer data never appear here.
func (g *CodeGenerator) ActivationCodePNG(ticketCode string) ([]byte, error) {
	bc, err := code128.Encode(ticketCode)
	if err != nil {
		return nil, fmt.Errorf("failed to build activation barcode: %w", err)
	}

	scaled, err := barcode.Scale(bc, g.qrSize, g.qrSize/4)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeScannedCode accepts either a bare ticket code or a serialized gate
// payload and returns the ticket code to validate. On a structured payload
// the signature is re-derived; a mismatch returns ErrInvalidSignature along
// with the embedded ticket code for audit logging.
func (g *CodeGenerator) DecodeScannedCode(raw string) (string, *GateCodePayload, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return trimmed, nil, nil
	}

	var p GateCodePayload
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return "", nil, fmt.Errorf("malformed gate payload: %w", err)
	}

	expected := g.sign(&p)
	if !hmac.Equal([]byte(expected), []byte(p.Sig)) {
		return p.TicketCode, &p, ErrInvalidSignature
	}
	return p.TicketCode, &p, nil
}
