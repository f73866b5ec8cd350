package pix

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCRC16KnownVector(t *testing.T) {
	// The standard check value for CRC-16/CCITT-FALSE
	if got := crc16("123456789"); got != 0x29B1 {
		t.Errorf("Expected 0x29B1, got 0x%04X", got)
	}
}

func TestBuildPayloadStructure(t *testing.T) {
	payload, err := BuildPayload("11999999999", "Ana Pedro", 129.90, "Panela")
	if err != nil {
		t.Fatal("Failed to build payload:", err)
	}

	if !strings.HasPrefix(payload, "000201") {
		t.Errorf("Expected payload format indicator prefix, got %s", payload[:6])
	}

	for _, want := range []string{
		"0014br.gov.bcb.pix", // merchant account GUI
		"011111999999999",    // the pix key, length-prefixed
		"52040000",           // merchant category code
		"5303986",            // BRL currency
		"5406129.90",         // amount with two fractional digits
		"5802BR",             // country code
		"5909Ana Pedro",      // receiver name
		"6006BRASIL",         // fixed merchant city
		"0506Panela",         // description inside additional data
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("Expected payload to contain %q\npayload: %s", want, payload)
		}
	}

	if !strings.Contains(payload, "6304") {
		t.Error("Expected CRC field tag")
	}
}

func TestBuildPayloadDeterministic(t *testing.T) {
	first, err := BuildPayload("maria@example.com", "Maria", 50.00, "Vaso")
	if err != nil {
		t.Fatal("Failed to build payload:", err)
	}
	second, err := BuildPayload("maria@example.com", "Maria", 50.00, "Vaso")
	if err != nil {
		t.Fatal("Failed to build payload:", err)
	}
	if first != second {
		t.Error("Expected identical payloads for identical inputs")
	}
}

func TestBuildPayloadCRCTrailer(t *testing.T) {
	payload, err := BuildPayload("11999999999", "Ana Pedro", 129.90, "Panela")
	if err != nil {
		t.Fatal("Failed to build payload:", err)
	}

	// The last four characters are the CRC of everything before them,
	// "6304" tag included
	body := payload[:len(payload)-4]
	trailer := payload[len(payload)-4:]

	if !strings.HasSuffix(body, "6304") {
		t.Fatal("Expected CRC tag right before the trailer")
	}

	expected := fmt.Sprintf("%04X", crc16(body))
	if trailer != expected {
		t.Errorf("Expected CRC %s, got %s", expected, trailer)
	}

	if trailer != strings.ToUpper(trailer) {
		t.Error("Expected uppercase hex CRC")
	}
}

func TestBuildPayloadTruncation(t *testing.T) {
	longName := strings.Repeat("a", 30)
	longDescription := strings.Repeat("b", 80)

	payload, err := BuildPayload("11999999999", longName, 10.00, longDescription)
	if err != nil {
		t.Fatal("Failed to build payload:", err)
	}

	if !strings.Contains(payload, "5925"+strings.Repeat("a", 25)) {
		t.Error("Expected receiver name truncated to 25 characters")
	}
	if strings.Contains(payload, strings.Repeat("a", 26)) {
		t.Error("Receiver name exceeded 25 characters")
	}

	if !strings.Contains(payload, "0572"+strings.Repeat("b", 72)) {
		t.Error("Expected description truncated to 72 characters")
	}
	if strings.Contains(payload, strings.Repeat("b", 73)) {
		t.Error("Description exceeded 72 characters")
	}
}

func TestBuildPayloadEmptyDescription(t *testing.T) {
	payload, err := BuildPayload("11999999999", "Ana", 10.00, "")
	if err != nil {
		t.Fatal("Failed to build payload:", err)
	}
	if !strings.Contains(payload, "0503***") {
		t.Error("Expected '***' placeholder for empty description")
	}
}

func TestBuildPayloadErrors(t *testing.T) {
	if _, err := BuildPayload("", "Ana", 10.00, "Vaso"); !errors.Is(err, ErrMissingKey) {
		t.Errorf("Expected ErrMissingKey, got %v", err)
	}
	if _, err := BuildPayload("   ", "Ana", 10.00, "Vaso"); !errors.Is(err, ErrMissingKey) {
		t.Errorf("Expected ErrMissingKey for blank key, got %v", err)
	}

	if _, err := BuildPayload("11999999999", "Ana", 0, "Vaso"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for zero amount, got %v", err)
	}
	if _, err := BuildPayload("11999999999", "Ana", -5, "Vaso"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for negative amount, got %v", err)
	}

	// A key this long cannot be length-prefixed inside the merchant
	// account template
	hugeKey := strings.Repeat("k", 95)
	if _, err := BuildPayload(hugeKey, "Ana", 10.00, "Vaso"); !errors.Is(err, ErrEncoding) {
		t.Errorf("Expected ErrEncoding for oversized key, got %v", err)
	}
}
