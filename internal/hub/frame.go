package hub

import "fmt"

// Outbound frames are a type tag followed by a pipe-delimited payload.
// The prefixes are load-bearing: deployed web clients dispatch on them,
// so they must not change. rtc-call-unavailable is the one addition over
// the original protocol; clients that predate it ignore unknown tags.
const (
	PrefixChat            = "chat"
	PrefixNotification    = "notification"
	PrefixSignal          = "rtc-signal"
	PrefixCallRequest     = "rtc-call-request"
	PrefixCallAccepted    = "rtc-call-accepted"
	PrefixCallUnavailable = "rtc-call-unavailable"
)

// ChatFrame renders a room broadcast: chat|<sender> (<company>): <text>
func ChatFrame(fullName, companyName, text string) string {
	return fmt.Sprintf("%s|%s (%s): %s", PrefixChat, fullName, companyName, text)
}

// NotificationFrame wraps a serialized notification row: notification|<JSON>
func NotificationFrame(payload string) string {
	return PrefixNotification + "|" + payload
}

// SignalFrame relays an opaque signaling payload: rtc-signal|<sender>|<payload>
func SignalFrame(senderUserID int64, payload string) string {
	return fmt.Sprintf("%s|%d|%s", PrefixSignal, senderUserID, payload)
}

// CallRequestFrame announces an incoming call: rtc-call-request|<sender>|<name>|<room>
func CallRequestFrame(senderUserID int64, senderName string, roomID int64) string {
	return fmt.Sprintf("%s|%d|%s|%d", PrefixCallRequest, senderUserID, senderName, roomID)
}

// CallAcceptedFrame tells the original caller to start the peer
// handshake: rtc-call-accepted|<recipient>
func CallAcceptedFrame(recipientID int64) string {
	return fmt.Sprintf("%s|%d", PrefixCallAccepted, recipientID)
}

// CallUnavailableFrame echoes back to the caller that the callee is
// offline: rtc-call-unavailable|<recipient>
func CallUnavailableFrame(recipientID int64) string {
	return fmt.Sprintf("%s|%d", PrefixCallUnavailable, recipientID)
}
