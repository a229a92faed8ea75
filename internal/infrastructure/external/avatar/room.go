package avatar

import (
	"fmt"

	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/pion/webrtc/v4"
)

// TrackKind distinguishes the avatar's media tracks.
type TrackKind string

const (
	TrackKindVideo TrackKind = "video"
	TrackKindAudio TrackKind = "audio"
)

// RoomEvents are the callbacks the orchestrator wires before joining.
type RoomEvents struct {
	// OnTrackAttached fires when an avatar media track is subscribed
	OnTrackAttached func(kind TrackKind)

	// OnDisconnected fires on an unsolicited room disconnect
	OnDisconnected func(reason string)
}

// PreparedRoom is a room object with callbacks wired but no connection yet.
type PreparedRoom interface {
	// Join performs the media handshake
	Join(url, token string) error

	// Disconnect leaves the room
	Disconnect()
}

// RoomConnector builds prepared rooms. The orchestrator depends on this
// interface so tests can substitute a fake.
type RoomConnector interface {
	Prepare(events RoomEvents) PreparedRoom
}

// LKConnector connects to LiveKit-protocol media rooms.
type LKConnector struct{}

// NewRoomConnector creates the production room connector.
func NewRoomConnector() *LKConnector {
	return &LKConnector{}
}

// Prepare builds the room object and callback wiring without touching the
// network.
func (c *LKConnector) Prepare(events RoomEvents) PreparedRoom {
	cb := &lksdk.RoomCallback{
		ParticipantCallback: lksdk.ParticipantCallback{
			OnTrackSubscribed: func(track *webrtc.TrackRemote, pub *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
				if events.OnTrackAttached == nil {
					return
				}
				kind := TrackKindAudio
				if track.Kind() == webrtc.RTPCodecTypeVideo {
					kind = TrackKindVideo
				}
				events.OnTrackAttached(kind)
			},
		},
		OnDisconnectedWithReason: func(reason lksdk.DisconnectionReason) {
			if events.OnDisconnected != nil {
				events.OnDisconnected(fmt.Sprint(reason))
			}
		},
	}

	return &lkRoom{room: lksdk.NewRoom(cb)}
}

type lkRoom struct {
	room *lksdk.Room
}

// Join performs the media handshake
func (r *lkRoom) Join(url, token string) error {
	if err := r.room.JoinWithToken(url, token); err != nil {
		return fmt.Errorf("failed to join media room: %w", err)
	}
	return nil
}

// Disconnect leaves the room
func (r *lkRoom) Disconnect() {
	r.room.Disconnect()
}
