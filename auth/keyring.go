// Package auth keeps the Bilibili session cookie (SESSDATA) in the system keyring.
package auth

import (
	"errors"
	"strings"

	"github.com/bilisonic/bilisonic/constant"
	"github.com/zalando/go-keyring"
)

const user = "sessdata"

// ErrEmptyToken is returned when trying to store a blank SESSDATA.
var ErrEmptyToken = errors.New("empty SESSDATA")

// SetSessData persists the SESSDATA cookie to the system keyring.
func SetSessData(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyToken
	}
	return keyring.Set(constant.App, user, value)
}

// GetSessData retrieves the SESSDATA cookie from the system keyring.
func GetSessData() (string, error) {
	return keyring.Get(constant.App, user)
}

// DeleteSessData removes the SESSDATA cookie from the system keyring.
func DeleteSessData() error {
	return keyring.Delete(constant.App, user)
}

// Cookie returns the Cookie header value for authenticated requests,
// or an empty string when no SESSDATA is stored.
func Cookie() string {
	value, err := GetSessData()
	if err != nil || value == "" {
		return ""
	}
	return "SESSDATA=" + value
}
