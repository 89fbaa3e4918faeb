package tor

import (
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// checkTimeout bounds CheckSOCKS.
const checkTimeout = 2 * time.Second

const (
	socks5Version  = 0x05
	socks5AuthNone = 0x00
)

// CheckSOCKS performs a SOCKS5 greeting against addr and verifies that the
// proxy accepts unauthenticated clients. It does not open a tunnel.
func CheckSOCKS(ctx context.Context, addr string) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrProxyTimeout
		}
		return ErrProxyCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkTimeout)); err != nil {
		return ErrProxyCannotConnect
	}

	// version, one method, no authentication
	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ErrProxyCannotConnect
	}

	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrProxyTimeout
		}
		return ErrProxyNotSOCKS
	}

	// 0xFF means none of the offered methods was acceptable.
	if resp[0] != socks5Version || resp[1] != socks5AuthNone {
		return ErrProxyNotSOCKS
	}
	return nil
}
