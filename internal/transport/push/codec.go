package push

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Engine.IO packet types.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
)

// Socket.IO packet types.
const (
	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioAck          = '3'
	sioConnectError = '4'
	sioBinaryEvent  = '5'
	sioBinaryAck    = '6'
)

var (
	errEmptyPacket  = errors.New("empty packet")
	errBinaryPacket = errors.New("binary packets are not supported")
)

// openInfo is the Engine.IO handshake payload.
type openInfo struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

func parseOpen(frame string) (openInfo, error) {
	var info openInfo
	if len(frame) == 0 || frame[0] != eioOpen {
		return info, fmt.Errorf("expected open packet, got %q", truncate(frame))
	}
	if err := json.Unmarshal([]byte(frame[1:]), &info); err != nil {
		return info, fmt.Errorf("decode open packet: %w", err)
	}
	return info, nil
}

// packet is a decoded Socket.IO packet.
type packet struct {
	Type      byte
	Namespace string
	AckID     *int64
	Data      json.RawMessage
}

// parsePacket decodes a Socket.IO packet carried in an Engine.IO message,
// without the leading Engine.IO type byte.
func parsePacket(s string) (packet, error) {
	var p packet
	if s == "" {
		return p, errEmptyPacket
	}

	p.Type = s[0]
	switch p.Type {
	case sioConnect, sioDisconnect, sioEvent, sioAck, sioConnectError:
	case sioBinaryEvent, sioBinaryAck:
		return p, errBinaryPacket
	default:
		return p, fmt.Errorf("unknown packet type %q", p.Type)
	}
	rest := s[1:]

	p.Namespace = "/"
	if strings.HasPrefix(rest, "/") {
		i := strings.IndexByte(rest, ',')
		if i < 0 {
			p.Namespace, rest = rest, ""
		} else {
			p.Namespace, rest = rest[:i], rest[i+1:]
		}
	}

	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i > 0 {
		id, err := strconv.ParseInt(rest[:i], 10, 64)
		if err != nil {
			return p, fmt.Errorf("parse ack id: %w", err)
		}
		p.AckID = &id
		rest = rest[i:]
	}

	if rest != "" {
		p.Data = json.RawMessage(rest)
	}
	return p, nil
}

// encodePacket renders a Socket.IO packet as an Engine.IO message frame.
func encodePacket(typ byte, namespace string, ackID *int64, data []byte) string {
	var b strings.Builder
	b.WriteByte(eioMessage)
	b.WriteByte(typ)
	if namespace != "" && namespace != "/" {
		b.WriteString(namespace)
		b.WriteByte(',')
	}
	if ackID != nil {
		b.WriteString(strconv.FormatInt(*ackID, 10))
	}
	b.Write(data)
	return b.String()
}

// decodeEvent splits an event payload into its name and arguments.
func decodeEvent(data json.RawMessage) (string, []json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return "", nil, fmt.Errorf("decode event: %w", err)
	}
	if len(items) == 0 {
		return "", nil, errors.New("decode event: missing name")
	}

	var name string
	if err := json.Unmarshal(items[0], &name); err != nil {
		return "", nil, fmt.Errorf("decode event name: %w", err)
	}
	return name, items[1:], nil
}

// connectError extracts the message of a CONNECT_ERROR payload.
func connectError(data json.RawMessage) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
		return string(trimmed)
	}
	return "connection refused"
}

func truncate(s string) string {
	const n = 64
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
