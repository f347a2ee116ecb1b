package modem_test

import "fmt"

// ReplySequence builds the replies a fakeTransport gives, one per command,
// in the order the session sends its commands.
type ReplySequence struct {
	echo    bool
	replies []string
}

func NewReplySequence(echo bool) *ReplySequence {
	return &ReplySequence{echo: echo}
}

func (s *ReplySequence) reply(cmd, body string) *ReplySequence {
	if s.echo {
		body = cmd + "\r\n" + body
	}
	s.replies = append(s.replies, body)
	return s
}

func (s *ReplySequence) Status(digit byte) *ReplySequence {
	return s.reply("AT+CIPSTATUS", fmt.Sprintf("STATUS:%c\r\n\r\nOK\r\n", digit))
}

func (s *ReplySequence) QuitAP() *ReplySequence {
	return s.reply("AT+CWQAP", "\r\nOK\r\nWIFI DISCONNECT\r\n")
}

func (s *ReplySequence) StationMode() *ReplySequence {
	return s.reply("AT+CWMODE=1", "\r\nOK\r\n")
}

func (s *ReplySequence) Join(ssid, password, body string) *ReplySequence {
	return s.reply(fmt.Sprintf(`AT+CWJAP="%s","%s"`, ssid, password), body)
}

func (s *ReplySequence) StationIP(addr string) *ReplySequence {
	return s.reply("AT+CIFSR", fmt.Sprintf("+CIFSR:STAIP,\"%s\"\r\n+CIFSR:STAMAC,\"de:ad:be:ef:00:01\"\r\n\r\nOK\r\n", addr))
}

func (s *ReplySequence) Ready() *ReplySequence {
	return s.reply("AT+RST", "\r\nOK\r\n\r\nready\r\n")
}

// Silent leaves the next command unanswered.
func (s *ReplySequence) Silent() *ReplySequence {
	s.replies = append(s.replies, "")
	return s
}

func (s *ReplySequence) Build() []string {
	return s.replies
}
