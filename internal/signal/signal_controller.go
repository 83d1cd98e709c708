package signal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	echo "github.com/labstack/echo/v4"
	"github.com/srs-rtc/signal-server/internal/identity"
	"github.com/srs-rtc/signal-server/internal/registry"
	"github.com/srs-rtc/signal-server/pkg/protocol"
	"github.com/srs-rtc/signal-server/pkg/wsutils"
	"go.uber.org/fx"
)

// websocketSender adapts a ThreadSafeWriter to the registry Sender.
type websocketSender struct {
	w *wsutils.ThreadSafeWriter
}

func (s *websocketSender) Notify(event string, payload any) error {
	return s.w.WriteJSON(&protocol.Notification{Event: event, Data: payload})
}

func (s *websocketSender) Close() error {
	return s.w.Close()
}

type signalController struct {
	callService *CallService
	userLookup  identity.UserLookup
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

func (ctrl *signalController) wsError(w *wsutils.ThreadSafeWriter, err error) error {
	ctrl.logger.Error(fmt.Sprintf("%s | Err: %s", w.Conn.RemoteAddr(), err))
	return err
}

// admit runs the handshake checks shared by both endpoint classes: required
// userId query param, then the store lookup. Both reject before any upgrade
// or registry interaction.
func (ctrl *signalController) admit(ctx echo.Context, userType protocol.UserType) (protocol.UserInfo, error) {
	userID := ctx.QueryParam("userId")
	if userID == "" {
		return protocol.UserInfo{}, echo.NewHTTPError(http.StatusBadRequest, identity.ErrMissingUserID.Error())
	}

	info, err := ctrl.userLookup.GetUserInfo(ctx.Request().Context(), userID, userType)
	if err != nil {
		ctrl.logger.Warn("admission rejected",
			slog.String("userId", userID),
			slog.String("userType", userType.String()),
			slog.String("err", err.Error()))
		return protocol.UserInfo{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return info, nil
}

func (ctrl *signalController) SignalClient(ctx echo.Context) error {
	info, err := ctrl.admit(ctx, protocol.UserTypeClient)
	if err != nil {
		return err
	}

	conn, err := ctrl.upgrader.Upgrade(ctx.Response().Writer, ctx.Request(), nil)
	if err != nil {
		ctrl.logger.Error(fmt.Sprintf("Unable upgrade request %+v", ctx.Request()))
		return err
	}

	w := wsutils.NewThreadSafeWriter(conn)
	defer w.Close()

	peer := registry.NewPeer(info, &websocketSender{w: w})
	ctrl.callService.RegisterClient(peer)
	defer ctrl.callService.DisconnectClient(peer)

	for {
		message := &protocol.Message{}
		if err := w.ReadJSON(message); err != nil {
			return ctrl.wsError(w, err)
		}

		resp := ctrl.dispatch(peer, message)
		if resp == nil {
			continue
		}
		if err := w.WriteJSON(&protocol.Reply{
			Event:     message.Event,
			RequestID: message.RequestID,
			Data:      resp,
		}); err != nil {
			return ctrl.wsError(w, err)
		}
	}
}

func (ctrl *signalController) SignalAdministrator(ctx echo.Context) error {
	info, err := ctrl.admit(ctx, protocol.UserTypeAdministrator)
	if err != nil {
		return err
	}

	conn, err := ctrl.upgrader.Upgrade(ctx.Response().Writer, ctx.Request(), nil)
	if err != nil {
		ctrl.logger.Error(fmt.Sprintf("Unable upgrade request %+v", ctx.Request()))
		return err
	}

	w := wsutils.NewThreadSafeWriter(conn)
	defer w.Close()

	peer := registry.NewPeer(info, &websocketSender{w: w})
	ctrl.callService.RegisterAdministrator(peer)
	defer ctrl.callService.DisconnectAdministrator(peer)

	// Administrators have no request vocabulary; drain until disconnect.
	message := &protocol.Message{}
	for {
		if err := w.ReadJSON(message); err != nil {
			return ctrl.wsError(w, err)
		}
	}
}

type inviteSomeoneRequest struct {
	UserID string `json:"userId"`
}

func (ctrl *signalController) dispatch(peer *registry.Peer, message *protocol.Message) *protocol.Response {
	switch message.Event {
	case protocol.ReqInviteSomeone:
		var req inviteSomeoneRequest
		if err := json.Unmarshal(message.Data, &req); err != nil {
			return protocol.NewErrorResponse(CodeValidation, "wrong data format")
		}
		return toResponse(ctrl.callService.InviteOne(peer, req.UserID))

	case protocol.ReqInviteSomePeople:
		var list []inviteSomeoneRequest
		if err := json.Unmarshal(message.Data, &list); err != nil {
			return protocol.NewErrorResponse(CodeValidation, "wrong data format")
		}
		userIDs := make([]string, 0, len(list))
		for _, item := range list {
			userIDs = append(userIDs, item.UserID)
		}
		return toResponse(ctrl.callService.InviteMany(peer, userIDs))

	case protocol.ReqAcceptCall:
		roomID, resp := ctrl.roomIDOf(message)
		if resp != nil {
			return resp
		}
		if err := ctrl.callService.AcceptCall(peer, roomID); err != nil {
			return protocol.NewErrorResponse(CodeOf(err), err.Error())
		}
		return protocol.NewSuccessResponse(nil)

	case protocol.ReqRejectCall:
		roomID, resp := ctrl.roomIDOf(message)
		if resp != nil {
			return resp
		}
		if err := ctrl.callService.RejectCall(peer, roomID); err != nil {
			return protocol.NewErrorResponse(CodeOf(err), err.Error())
		}
		return protocol.NewSuccessResponse(nil)

	case protocol.ReqPublishStream:
		ctrl.callService.PublishStream(peer)
		return protocol.NewSuccessResponse(nil)

	case protocol.ReqHangUp:
		ctrl.callService.HangUp(peer)
		return protocol.NewSuccessResponse(nil)

	default:
		return protocol.NewErrorResponse(CodeValidation, "wrong message event")
	}
}

func (ctrl *signalController) roomIDOf(message *protocol.Message) (protocol.RoomID, *protocol.Response) {
	var roomID string
	if len(message.Data) != 0 {
		if err := json.Unmarshal(message.Data, &roomID); err != nil {
			return "", protocol.NewErrorResponse(CodeValidation, "wrong data format")
		}
	}
	return roomID, nil
}

func toResponse(data any, err error) *protocol.Response {
	if err != nil {
		return protocol.NewErrorResponse(CodeOf(err), err.Error())
	}
	return protocol.NewSuccessResponse(data)
}

func (ctrl *signalController) Resolve(router *echo.Echo) error {
	router.GET("/srs_rtc/signal/client", ctrl.SignalClient)
	router.GET("/srs_rtc/signal/administrator", ctrl.SignalAdministrator)
	return nil
}

var _ protocol.HttpResolvable = (*signalController)(nil)

type newSignalController_Params struct {
	fx.In

	CallService *CallService
	UserLookup  identity.UserLookup
	Logger      *slog.Logger
}

func NewSignalController(params newSignalController_Params) *signalController {
	return &signalController{
		callService: params.CallService,
		userLookup:  params.UserLookup,
		logger:      params.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}
