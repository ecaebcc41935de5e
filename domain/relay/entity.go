package relay

// Session is the live association between a connection and its chosen
// display name and room. One session exists per connection at most.
type Session struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Room string `json:"room"`
}

// Message is the timestamped, sender-attributed envelope delivered to
// clients. Time is wall-clock HH:MM:SS, computed at send time.
type Message struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// EnterRoom is the inbound payload for joining (or switching) a room.
type EnterRoom struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

// ChatText is the inbound payload of a chat message before enveloping.
type ChatText struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// UserList is the roster of a single room.
type UserList struct {
	Users []Session `json:"users"`
}

// RoomList is the set of currently active rooms.
type RoomList struct {
	Rooms []string `json:"rooms"`
}

// Event kinds exchanged over the per-connection channel.
const (
	EventMessage   = "message"
	EventEnterRoom = "enterRoom"
	EventActivity  = "activity"
	EventUserList  = "userList"
	EventRoomList  = "roomList"
	EventError     = "error"
)
