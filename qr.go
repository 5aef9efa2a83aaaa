/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// roomQR encodes a room code as a PNG so another device can scan it.
func roomQR(code string) ([]byte, error) {
	return qrcode.Encode(code, qrcode.Medium, qrSize)
}

// roomQRText renders the same code with block characters for the terminal.
func roomQRText(code string) (string, error) {
	q, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
