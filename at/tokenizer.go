package at

import (
	"bufio"
	"bytes"
	"strings"
)

// Splitter is used for tokenizing ESP-AT responses. It uses the signature of
// bufio.SplitFunc so it can be directly used with bufio.Scanner, and it is
// also driven by hand by the transport trace, which feeds it whatever bytes
// have arrived so far.
//
// It splits the input by CRLF line endings and also recognizes the
// CIPSEND input prompt ("> ").
//
// With echo enabled (the ESP default) the echoed command line is returned as
// an ordinary token ahead of the response.
//
// The atEOF parameter indicates whether any more data will be available.
// When true, any remaining data is returned as the final token.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// 1. Match input prompt
	if bytes.HasPrefix(data, []byte(Prompt)) {
		return len(Prompt), data[0:len(Prompt)], nil
	}

	// 2. Match standard line ending with CRLF
	if i := bytes.Index(data, []byte(CRLF)); i >= 0 {
		return i + len(CRLF), data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter

// Classify identifies the nature of the device output
func Classify(line string) ResponseType {
	if line == Prompt {
		return TypePrompt
	}

	// Direct matches for final results
	switch line {
	case OK, ERROR, FAIL, SendOK, SendFail:
		return TypeFinal
	}

	switch {
	case strings.HasPrefix(line, Busy):
		// "busy p..." and "busy s..."
		return TypeFinal
	case strings.HasPrefix(line, UrcIncomingData),
		strings.HasPrefix(line, "WIFI "),
		line == UrcReady,
		strings.HasSuffix(line, Connect),
		strings.HasSuffix(line, Closed):
		return TypeURC
	case LookFor([]byte(ERROR), []byte(line)) >= 0 && !strings.HasPrefix(line, "AT"):
		// "ERROR CODE:0x01090000" ends a command; an echoed command never does.
		return TypeFinal
	default:
		return TypeData
	}
}

// LookFor returns the index of the first occurrence of needle in haystack,
// or -1 if needle is not present. An empty needle is found at index 0.
func LookFor(needle, haystack []byte) int {
	n := len(needle)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(haystack); i++ {
		if haystack[i] == needle[0] && bytes.Equal(haystack[i:i+n], needle) {
			return i
		}
	}
	return -1
}
