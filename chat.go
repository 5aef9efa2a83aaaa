/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"slices"
	"strings"
	"time"
)

const chatLimit = 50

type ChatLine struct {
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Role      string    `json:"role"`
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat keeps the most recent chatLimit lines of a room.
type Chat struct {
	lines []ChatLine
}

func (c *Chat) Append(l ChatLine) {
	c.lines = append(c.lines, l)
	if len(c.lines) > chatLimit {
		c.lines = slices.Clone(c.lines[len(c.lines)-chatLimit:])
	}
}

func (c *Chat) Lines() []ChatLine {
	return slices.Clone(c.lines)
}

func newChatEnvelope(msg string) (Envelope, error) {
	msg = strings.TrimSpace(msg)
	if err := validateChatMessage(msg); err != nil {
		return Envelope{}, err
	}
	return newEnvelope(msgChat, chatRequest{Message: msg})
}
