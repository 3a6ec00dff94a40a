package utils

import (
	"fmt"
	"strings"
	"time"
)

// UsernameFromEmail derives a base username from the local part of an
// email address.
func UsernameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if email == "" || at <= 0 {
		return fmt.Sprintf("user%d", time.Now().UnixMilli())
	}
	return email[:at]
}
