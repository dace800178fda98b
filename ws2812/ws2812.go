// Package ws2812 implements a driver for WS2812 and SK6812 RGB LED strips,
// and adapts that driver to the ledscript strip.Strip contract so the
// executor can drive a real strip the same way it drives strip.Mock.
package ws2812 // import "github.com/becuri/ledscript/ws2812"

//go:generate go run gen-ws2812.go -arch=cortexm 16 48 64 120 125 168
//go:generate go run gen-ws2812.go -arch=tinygoriscv 160 320

import (
	"errors"
	"fmt"
	stdcolor "image/color"
	"machine"

	ledscript "github.com/becuri/ledscript"
	"github.com/becuri/ledscript/color"
)

var errUnknownClockSpeed = errors.New("ws2812: unknown CPU clock speed")

type deviceType uint8

const (
	WS2812 deviceType = iota // RGB, uses 3 bytes
	SK6812                   // RGBA / RGBW, uses 4 bytes
)

// Device wraps a pin object for an easy driver interface.
type Device struct {
	Pin        machine.Pin
	deviceType deviceType
}

// deprecated, use NewWS2812 or NewSK6812 depending on which device you want.
// calls NewWS2812() to avoid breaking everyone's existing code.
func New(pin machine.Pin) Device {
	return NewWS2812(pin)
}

// NewWS2812 returns a new WS2812(RGB) driver.
// It does not touch the pin object: you have
// to configure it as an output pin before calling New.
func NewWS2812(pin machine.Pin) Device {
	return Device{
		Pin:        pin,
		deviceType: WS2812,
	}
}

// NewSK6812 returns a new SK6812(RGBA) driver.
// It does not touch the pin object: you have
// to configure it as an output pin before calling New.
func NewSK6812(pin machine.Pin) Device {
	return Device{
		Pin:        pin,
		deviceType: SK6812,
	}
}

// Write the raw bitstring out using the WS2812 protocol.
func (d Device) Write(buf []byte) (n int, err error) {
	for _, c := range buf {
		d.WriteByte(c)
	}
	return len(buf), nil
}

// Write the given color slice out using the WS2812 protocol.
// Colors are sent out in the usual GRB(A) format.
func (d Device) WriteColors(buf []stdcolor.RGBA) (err error) {
	switch d.deviceType {
	case WS2812:
		err = d.writeColorsRGB(buf)
	case SK6812:
		err = d.writeColorsRGBA(buf)
	}
	return
}

func (d Device) writeColorsRGB(buf []stdcolor.RGBA) (err error) {
	for _, px := range buf {
		d.WriteByte(px.G)       // green
		d.WriteByte(px.R)       // red
		err = d.WriteByte(px.B) // blue
	}
	return
}

func (d Device) writeColorsRGBA(buf []stdcolor.RGBA) (err error) {
	for _, px := range buf {
		d.WriteByte(px.G)       // green
		d.WriteByte(px.R)       // red
		d.WriteByte(px.B)       // blue
		err = d.WriteByte(px.A) // alpha
	}
	return
}

// Strip adapts a Device to the ledscript strip.Strip contract: it owns a
// logical pixel buffer, applies the gamma brightness curve at Show time,
// and pushes the result out over the Device's WriteColors.
//
// Strip always talks WS2812 GRB wire order (via writeColorsRGB); use a
// bare Device directly for SK6812 strips, since the fourth physical
// channel has no equivalent in the logical (r,g,b,l) color model this
// module compiles against.
type Strip struct {
	dev    Device
	pixels []color.Color
}

// NewStrip allocates a Strip of n pixels driven over pin. The pin must
// already be configured as an output, matching Device's own contract.
func NewStrip(pin machine.Pin, n int) *Strip {
	return &Strip{
		dev:    NewWS2812(pin),
		pixels: make([]color.Color, n),
	}
}

func (s *Strip) Len() int { return len(s.pixels) }

func (s *Strip) Set(i int, c color.Color) error {
	if i < 0 || i >= len(s.pixels) {
		return fmt.Errorf("%w: index %d out of range [0,%d)", ledscript.ErrInputRange, i, len(s.pixels))
	}
	s.pixels[i] = c
	return nil
}

func (s *Strip) Fill(c color.Color) {
	for i := range s.pixels {
		s.pixels[i] = c
	}
}

// Show applies the gamma curve to every logical pixel and latches the
// whole strip over the wire in one WriteColors call.
func (s *Strip) Show() {
	buf := make([]stdcolor.RGBA, len(s.pixels))
	for i, c := range s.pixels {
		r, g, b := c.Phys()
		buf[i] = stdcolor.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	s.dev.WriteColors(buf)
}
