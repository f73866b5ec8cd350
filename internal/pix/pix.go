// Package pix builds static "Copia e Cola" BR Code payloads, the
// merchant-presented text a payer app scans or pastes to start an
// instant payment. The format is the EMV QR tag-length-value layout
// with the CRC-16/CCITT-FALSE trailer required by the Banco Central
// spec. Encoding is pure string work: same inputs, same bytes out.
package pix

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingKey means the event has no PIX key configured.
	ErrMissingKey = errors.New("pix key is not set")
	// ErrInvalidAmount rejects non-positive amounts; every payload this
	// system builds carries a concrete gift price.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrEncoding means a field value cannot be length-prefixed, which
	// only happens if a value exceeds the two-digit TLV length.
	ErrEncoding = errors.New("field value too long to encode")
)

const (
	// gui identifies the PIX arrangement inside the merchant account
	// information template (field 26, sub-field 00).
	gui = "br.gov.bcb.pix"

	// The data model has no city; the reference payload uses a fixed one.
	merchantCity = "BRASIL"

	maxNameLen        = 25
	maxDescriptionLen = 72
)

// BuildPayload assembles the complete BR Code string for a static QR
// with a fixed amount. The receiver name is truncated to 25 characters
// and the description to 72, matching the EMV field limits. An empty
// description falls back to "***", the conventional static-code txid.
func BuildPayload(key, receiverName string, amount float64, description string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrMissingKey
	}
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	receiverName = truncateRunes(strings.TrimSpace(receiverName), maxNameLen)
	description = truncateRunes(strings.TrimSpace(description), maxDescriptionLen)
	if description == "" {
		description = "***"
	}

	merchantAccount, err := buildTLV(
		tlv{"00", gui},
		tlv{"01", key},
	)
	if err != nil {
		return "", err
	}

	additionalData, err := buildTLV(
		tlv{"05", description},
	)
	if err != nil {
		return "", err
	}

	payload, err := buildTLV(
		tlv{"00", "01"},
		tlv{"26", merchantAccount},
		tlv{"52", "0000"},
		tlv{"53", "986"},
		tlv{"54", fmt.Sprintf("%.2f", amount)},
		tlv{"58", "BR"},
		tlv{"59", receiverName},
		tlv{"60", merchantCity},
		tlv{"62", additionalData},
	)
	if err != nil {
		return "", err
	}

	// The CRC covers everything up to and including its own "6304" tag
	payload += "6304"
	payload += fmt.Sprintf("%04X", crc16(payload))

	return payload, nil
}

type tlv struct {
	id    string
	value string
}

func buildTLV(fields ...tlv) (string, error) {
	var builder strings.Builder
	for _, f := range fields {
		// Length is the value's byte length, capped by the two digits
		// the format allows
		if len(f.value) > 99 {
			return "", fmt.Errorf("%w: field %s is %d bytes", ErrEncoding, f.id, len(f.value))
		}
		builder.WriteString(f.id)
		builder.WriteString(fmt.Sprintf("%02d", len(f.value)))
		builder.WriteString(f.value)
	}
	return builder.String(), nil
}

// crc16 is CRC-16/CCITT-FALSE: polynomial 0x1021, initial value 0xFFFF,
// no input or output reflection.
func crc16(data string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
