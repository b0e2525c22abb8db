// Package rtc holds the WebRTC settings handed to browsers. Media never
// flows through the broker; peers connect directly after negotiation.
package rtc

import (
	"strings"

	"github.com/pion/webrtc/v4"
)

var DefaultICEServers = []string{"stun:stun.l.google.com:19302"}

// Configuration builds the peer connection configuration clients should use.
// Blank urls are ignored; an empty list falls back to DefaultICEServers.
func Configuration(urls []string) webrtc.Configuration {
	clean := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			clean = append(clean, u)
		}
	}
	if len(clean) == 0 {
		clean = append(clean, DefaultICEServers...)
	}
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: clean,
			},
		},
	}
}
