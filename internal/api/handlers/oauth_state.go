package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errInvalidState = errors.New("invalid state format")

// GenerateState returns "<nonce>.<payload>" where payload is the base64 JSON
// of data (for example the login or register flow).
func GenerateState(data map[string]string) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state data: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(nonce) + "." + base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeState returns the data embedded by GenerateState.
func DecodeState(state string) (map[string]string, error) {
	nonce, payload, ok := strings.Cut(state, ".")
	if !ok || nonce == "" || strings.Contains(payload, ".") {
		return nil, errInvalidState
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode state payload: %w", err)
	}

	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state JSON: %w", err)
	}
	return data, nil
}
