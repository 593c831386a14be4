// Package rabbitmq publishes and consumes JSON messages on RabbitMQ topic
// exchanges.
package rabbitmq

import (
	"errors"
	"net/url"
	"strings"
)

// sanitizeURL strips whitespace and stray quotes that .env files tend to
// leave around the URL and checks the scheme.
func sanitizeURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}

	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}
