package ws

import (
	"strconv"
	"strings"

	apperrors "github.com/sourcefab/rfq-hub-go/internal/errors"
)

// Inbound frames are verb-first and pipe-delimited, matching what the
// deployed web client sends:
//
//	JOIN|<roomID>
//	LEAVE|<roomID>
//	CHAT|<roomID>|<text>
//	RTC|<recipientUserID>|<payload>
//	CALL|<recipientUserID>|<roomID>
//	ACCEPT|<originalSenderID>
//
// CHAT text and RTC payloads may themselves contain pipes, so those
// frames split on the first two delimiters only.
const (
	verbJoin   = "JOIN"
	verbLeave  = "LEAVE"
	verbChat   = "CHAT"
	verbSignal = "RTC"
	verbCall   = "CALL"
	verbAccept = "ACCEPT"
)

type inboundFrame struct {
	verb             string
	roomID           int64
	recipientUserID  int64
	originalSenderID int64
	text             string
	payload          string
}

func parseInbound(raw string) (*inboundFrame, error) {
	verb, rest, found := strings.Cut(raw, "|")
	if !found {
		return nil, apperrors.MalformedFrame("missing delimiter")
	}

	switch verb {
	case verbJoin, verbLeave:
		roomID, err := parseID(rest)
		if err != nil {
			return nil, err
		}
		return &inboundFrame{verb: verb, roomID: roomID}, nil

	case verbChat:
		roomPart, text, ok := strings.Cut(rest, "|")
		if !ok {
			return nil, apperrors.MalformedFrame("CHAT needs room and text")
		}
		roomID, err := parseID(roomPart)
		if err != nil {
			return nil, err
		}
		return &inboundFrame{verb: verb, roomID: roomID, text: text}, nil

	case verbSignal:
		recipientPart, payload, ok := strings.Cut(rest, "|")
		if !ok {
			return nil, apperrors.MalformedFrame("RTC needs recipient and payload")
		}
		recipientID, err := parseID(recipientPart)
		if err != nil {
			return nil, err
		}
		return &inboundFrame{verb: verb, recipientUserID: recipientID, payload: payload}, nil

	case verbCall:
		recipientPart, roomPart, ok := strings.Cut(rest, "|")
		if !ok {
			return nil, apperrors.MalformedFrame("CALL needs recipient and room")
		}
		recipientID, err := parseID(recipientPart)
		if err != nil {
			return nil, err
		}
		roomID, err := parseID(roomPart)
		if err != nil {
			return nil, err
		}
		return &inboundFrame{verb: verb, recipientUserID: recipientID, roomID: roomID}, nil

	case verbAccept:
		senderID, err := parseID(rest)
		if err != nil {
			return nil, err
		}
		return &inboundFrame{verb: verb, originalSenderID: senderID}, nil

	default:
		return nil, apperrors.MalformedFrame("unknown verb " + verb)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, apperrors.MalformedFrame("not a numeric id: " + s)
	}
	return id, nil
}
