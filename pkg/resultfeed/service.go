package resultfeed

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxRetries     = 10
	baseRetryDelay = 2 * time.Second
	maxRetryDelay  = 60 * time.Second

	// Evaluations arrive in bursts while a technician works a job; allow a
	// long idle window before declaring the connection dead.
	idleDeadline = 5 * time.Minute
)

// feedURL builds the websocket endpoint for the compliance API feed.
func feedURL(host string, useTLS bool) url.URL {
	scheme := "ws"
	if useTLS {
		scheme = "wss"
	}
	return url.URL{Scheme: scheme, Host: host, Path: "/ws"}
}

// StartListener keeps a feed connection alive until ctx is cancelled and
// calls funcToCall for each evaluation envelope. Live gauge frames share the
// feed and are skipped here.
func StartListener(ctx context.Context, host string, useTLS bool, funcToCall func(envelope *Envelope)) {
	u := feedURL(host, useTLS)
	retryCount := 0

	for {
		if ctx.Err() != nil {
			log.Println("Shutdown requested, stopping feed listener")
			return
		}

		if retryCount > 0 {
			// Exponential backoff between attempts
			retryDelay := time.Duration(1<<retryCount) * baseRetryDelay
			if retryDelay > maxRetryDelay {
				retryDelay = maxRetryDelay
			}
			log.Printf("Retrying connection in %v... (attempt %d/%d)", retryDelay, retryCount+1, maxRetries)
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				log.Println("Shutdown requested during retry wait, stopping feed listener")
				return
			}
		}

		log.Printf("Connecting to %s", u.String())

		dialer := websocket.DefaultDialer
		dialer.HandshakeTimeout = 10 * time.Second
		c, _, err := dialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			log.Printf("Connection failed: %v", err)
			retryCount++
			if retryCount >= maxRetries {
				log.Printf("Max retries (%d) reached. Giving up.", maxRetries)
				return
			}
			continue
		}

		log.Println("Connected! Accepting evaluation envelopes.")
		retryCount = 0

		connectionBroken := handleConnection(ctx, c, funcToCall)
		c.Close()

		if !connectionBroken {
			// Clean shutdown requested
			return
		}
		log.Println("Connection lost, will retry...")
	}
}

func handleConnection(
	ctx context.Context,
	c *websocket.Conn,
	funcToCall func(envelope *Envelope),
) bool {
	done := make(chan struct{})

	c.SetReadDeadline(time.Now().Add(idleDeadline))

	// Goroutine to read messages
	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket error: %v", err)
				} else {
					log.Printf("Connection closed: %v", err)
				}
				return
			}

			// Reset read deadline on successful message
			c.SetReadDeadline(time.Now().Add(idleDeadline))

			if messageType != websocket.TextMessage {
				log.Printf("Received unexpected message type: %d", messageType)
				continue
			}

			// Gauge frames are chatty; drop them without logging.
			if MessageKind(message) == KindGaugeFrame {
				continue
			}

			if envelope := EnvelopeFromJsonBytes(message); envelope != nil {
				funcToCall(envelope)
			} else {
				log.Printf("Failed to parse evaluation envelope: %s", string(message))
			}
		}
	}()

	// Goroutine to send periodic pings to keep connection alive
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := c.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
					log.Printf("Failed to send ping: %v", err)
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Wait for the connection to break or for shutdown
	select {
	case <-done:
		return true
	case <-ctx.Done():
		log.Println("Shutdown requested, closing connection...")

		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("Error sending close message:", err)
		}

		// Wait for close confirmation or timeout
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return false
	}
}
