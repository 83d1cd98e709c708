package protocol

import "encoding/json"

type RoomID = string

type UserType int

const (
	UserTypeClient        UserType = 1
	UserTypeAdministrator UserType = 2
)

func (t UserType) String() string {
	switch t {
	case UserTypeClient:
		return "client"
	case UserTypeAdministrator:
		return "administrator"
	}
	return "unknown"
}

// UserInfo is the stable identity of an endpoint. Uniqueness is defined on
// the (UserID, UserType) pair.
type UserInfo struct {
	UserID   string   `json:"userId"`
	Username string   `json:"username,omitempty"`
	UserType UserType `json:"userType,omitempty"`
}

// Client request events.
const (
	ReqInviteSomeone    = "req_invite_someone"
	ReqInviteSomePeople = "req_invite_some_people"
	ReqRejectCall       = "req_reject_call"
	ReqAcceptCall       = "req_accept_call"
	ReqPublishStream    = "req_publish_stream"
	ReqHangUp           = "req_hang_up"
)

// Client notification events.
const (
	NotifyForcedOffline = "notify_forced_offline"
	NotifyRequestCall   = "notify_request_call"
	NotifyRejectCall    = "notify_reject_call"
	NotifyAcceptCall    = "notify_accept_call"
	NotifyJoinRoom      = "notify_join_room"
	NotifyLeaveRoom     = "notify_leave_room"
	NotifyPlayStream    = "notify_play_stream"
)

// Administrator notification events.
const (
	NotifyClientOnline  = "notify_client_online"
	NotifyClientOffline = "notify_client_offline"
)

// Message is a single websocket frame. Requests carry a client-chosen
// RequestID which the reply echoes back; notifications carry none.
type Message struct {
	Event     string          `json:"event"`
	RequestID *int64          `json:"requestId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type Notification struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Response is the request completion envelope, written back inside a frame
// carrying the request's event and requestId.
type Response struct {
	Success bool   `json:"success"`
	Code    int    `json:"code,omitempty"`
	Msg     string `json:"msg,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Reply pairs a Response with the originating request frame.
type Reply struct {
	Event     string    `json:"event"`
	RequestID *int64    `json:"requestId,omitempty"`
	Data      *Response `json:"data"`
}

func NewSuccessResponse(data any) *Response {
	return &Response{Success: true, Data: data}
}

func NewErrorResponse(code int, msg string) *Response {
	return &Response{Success: false, Code: code, Msg: msg}
}

// Notification payloads.

type RequestCallData struct {
	InviteInfo UserInfo   `json:"inviteInfo"`
	CallList   []UserInfo `json:"callList,omitempty"`
	RoomID     RoomID     `json:"roomId"`
}

type InviteSomeoneData struct {
	InviteeInfo UserInfo `json:"inviteeInfo"`
	RoomID      RoomID   `json:"roomId"`
}

type InviteSomePeopleData struct {
	CallList           []UserInfo `json:"callList"`
	BusyList           []UserInfo `json:"busyList"`
	OfflineOrNotExists []UserInfo `json:"offlineOrNotExists"`
	RoomID             RoomID     `json:"roomId"`
}

type RoomMemberData struct {
	UserInfo UserInfo `json:"userInfo"`
	RoomID   RoomID   `json:"roomId"`
}
