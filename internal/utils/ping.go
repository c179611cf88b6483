package utils

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/textproto"
	"strconv"
	"time"
)

// DefaultRelayTimeout bounds the relay check when no timeout is configured
const DefaultRelayTimeout = 5 * time.Second

// PingMailRelay dials the SMTP relay and waits for its 220 greeting. Port 465
// speaks TLS from the first byte, so the greeting is read inside the handshake.
func PingMailRelay(host string, port int, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultRelayTimeout
	}
	address := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	if port == 465 {
		conn = tls.Client(conn, &tls.Config{ServerName: host})
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}

	text := textproto.NewConn(conn)
	if _, _, err := text.ReadResponse(220); err != nil {
		return fmt.Errorf("mail relay %s did not greet: %w", address, err)
	}
	// A relay that hangs up before QUIT is still healthy
	_ = text.PrintfLine("QUIT")
	return nil
}
