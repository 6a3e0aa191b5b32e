// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"hash/fnv"
	"time"
)

// Channel identifies the source a raw message arrived on.
type Channel string

// Message channels.
const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelChat  Channel = "chat"
)

// SourceChannel is the provenance tag carried on a parsed transaction.
// Email splits into bank and wallet depending on the sender.
type SourceChannel string

// Provenance tags.
const (
	SourceSMS         SourceChannel = "sms"
	SourceEmailBank   SourceChannel = "email-bank"
	SourceEmailWallet SourceChannel = "email-wallet"
	SourceChat        SourceChannel = "chat"
	SourceImport      SourceChannel = "import"
)

// RawMessage is an inbound message from any channel. It is ephemeral: the
// engine consumes it, emits a Transaction or nothing, and discards it.
type RawMessage struct {
	ReceivedAt time.Time
	Channel    Channel
	Sender     string
	Subject    string // email only
	Body       string
}

// fingerprintLength bounds the stored fingerprint for storage efficiency.
const fingerprintLength = 16

// Fingerprint returns a deterministic digest of the message identity fields,
// used as the dedup key. Identical sender+body+timestamp always produce the
// same fingerprint across process restarts.
func (m *RawMessage) Fingerprint() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d", m.Sender, m.Body, m.ReceivedAt.UnixMilli())
	fp := fmt.Sprintf("%016x", h.Sum64())
	if len(fp) > fingerprintLength {
		fp = fp[:fingerprintLength]
	}
	return fp
}

// SearchText returns the text a parser should scan for keywords: the body,
// plus the subject for email messages.
func (m *RawMessage) SearchText() string {
	if m.Subject == "" {
		return m.Body
	}
	return m.Subject + " " + m.Body
}
