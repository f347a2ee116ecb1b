// Package at holds the ESP-AT command vocabulary used by the driver and the
// primitives that consume the inbound byte channel: a Scanner for single
// patterns and Match for racing several terminators against each other.
package at

const (
	// Terminal Control
	CRLF   = "\r\n"
	Prompt = "> "

	// Response Codes
	OK       = "OK"
	ERROR    = "ERROR"
	FAIL     = "FAIL"
	SendOK   = "SEND OK"
	SendFail = "SEND FAIL"
	Busy     = "busy"
	Connect  = "CONNECT"
	Closed   = "CLOSED"

	// Active message reports
	UrcReady        = "ready"
	UrcWifiConnect  = "WIFI CONNECTED"
	UrcWifiGotIP    = "WIFI GOT IP"
	UrcWifiDisconn  = "WIFI DISCONNECT"
	UrcIncomingData = "+IPD"
)

// Commands, terminated as the device expects them.
const (
	CmdReset       = "AT+RST" + CRLF
	CmdStatus      = "AT+CIPSTATUS" + CRLF
	CmdQuitAP      = "AT+CWQAP" + CRLF
	CmdStationMode = "AT+CWMODE=1" + CRLF
	CmdLocalAddr   = "AT+CIFSR" + CRLF

	// CmdJoinFormat takes the SSID and the password.
	CmdJoinFormat = `AT+CWJAP="%s","%s"` + CRLF
)

// Reply markers.
const (
	StatusMarker = "STATUS:"
	StationIPTag = `+CIFSR:STAIP,"`
)

type ResponseType int

const (
	TypeFinal  ResponseType = iota // OK, ERROR
	TypeURC                        // Asynchronous notifications
	TypeData                       // Intermediate command output (+CIFSR: ...)
	TypePrompt                     // CIPSEND input prompt
)

func (t ResponseType) String() string {
	switch t {
	case TypeFinal:
		return "final"
	case TypeURC:
		return "urc"
	case TypeData:
		return "data"
	case TypePrompt:
		return "prompt"
	default:
		return "unknown"
	}
}
