// Package qr renders ticket and pass payloads as scannable QR images.
package qr

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	refAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	refLength   = 8
	imageSize   = 300
)

// Reference is a rendered QR image plus the stable name stored on the entity.
type Reference struct {
	Name string
	PNG  []byte
}

// Generator renders a payload string into a QR reference.
type Generator interface {
	Generate(payload string) (Reference, error)
}

// CodeGenerator is the production Generator backed by go-qrcode.
type CodeGenerator struct{}

// NewGenerator constructs a CodeGenerator.
func NewGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

// Generate encodes the payload with high error correction and returns the
// PNG bytes under a fresh unique name.
func (g *CodeGenerator) Generate(payload string) (Reference, error) {
	if payload == "" {
		return Reference{}, fmt.Errorf("qr: empty payload")
	}
	png, err := qrcode.Encode(payload, qrcode.High, imageSize)
	if err != nil {
		return Reference{}, fmt.Errorf("qr: encode failed: %w", err)
	}
	suffix, err := gonanoid.Generate(refAlphabet, refLength)
	if err != nil {
		return Reference{}, fmt.Errorf("qr: reference id failed: %w", err)
	}
	return Reference{
		Name: fmt.Sprintf("qr_%s.png", suffix),
		PNG:  png,
	}, nil
}
